package server

import "net/http"

const flashCookieName = "intake_flash"

type flashKind string

const (
	flashSuccess flashKind = "success"
	flashError   flashKind = "error"
)

type flashMessage struct {
	Kind flashKind
	Text string
}

// flashAndRedirect stores a one-shot message in an encrypted cookie and sends
// the browser back to the intake form, which displays and clears it.
func (s *Service) flashAndRedirect(w http.ResponseWriter, r *http.Request, kind flashKind, text string) {
	encoded, err := s.cookie.Encode(flashCookieName, flashMessage{Kind: kind, Text: text})
	if err != nil {
		s.logger.WithError(err).Error("failed to encode flash cookie")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    encoded,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   300,
	})

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Service) popFlash(w http.ResponseWriter, r *http.Request) *flashMessage {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})

	var msg flashMessage
	if err := s.cookie.Decode(flashCookieName, cookie.Value, &msg); err != nil {
		s.logger.WithError(err).Debug("failed to decode flash cookie")
		return nil
	}

	return &msg
}
