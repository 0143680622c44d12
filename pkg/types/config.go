package types

type Config struct {
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	ServerPort      uint   `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeoutSec  uint   `envconfig:"READ_TIMEOUT_SEC" default:"30"`
	WriteTimeoutSec uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"180"`

	// SmartSuite API
	SmartSuiteBaseURL     string `envconfig:"SMARTSUITE_BASE_URL" default:"https://app.smartsuite.com/api/v1"`
	SmartSuiteAPIKey      string `envconfig:"SMARTSUITE_API_KEY"`
	SmartSuiteWorkspaceID string `envconfig:"SMARTSUITE_WORKSPACE_ID"`
	SmartSuiteTableID     string `envconfig:"SMARTSUITE_TABLE_ID"`

	// SmartSuite field IDs for the Documents table. Find these via
	// GET /applications/{table_id}/fields
	FieldProduct  string `envconfig:"SS_FIELD_PRODUCT"`
	FieldType     string `envconfig:"SS_FIELD_TYPE"`
	FieldSupplier string `envconfig:"SS_FIELD_SUPPLIER"`
	FieldFilename string `envconfig:"SS_FIELD_FILENAME"`
	FieldDocument string `envconfig:"SS_FIELD_DOCUMENT"`

	// Per-call timeouts against the SmartSuite API
	CreateTimeoutSec uint `envconfig:"CREATE_TIMEOUT_SEC" default:"30"`
	UploadTimeoutSec uint `envconfig:"UPLOAD_TIMEOUT_SEC" default:"120"`

	// Intake constraints
	MaxFileBytes int64    `envconfig:"MAX_FILE_BYTES" default:"26214400"` // 25 MiB
	Products     []string `envconfig:"PRODUCTS" default:"Bevaloid,Calcium Propionate,Citric Acid,Citric Acid Anhydrous,Peptan"`
	DocTypes     []string `envconfig:"DOC_TYPES" default:"Allergen,COA,GMO,Prodn Flow,SDS,Other"`
	Suppliers    []string `envconfig:"SUPPLIERS" default:"Bakery,Ensign,Health Nutrition,XX,YY"`

	// Cookie encryption keys (base64 encoded)
	// openssl rand -base64 32
	// to generate values; random keys are used when unset
	CookieHashKey  string `envconfig:"COOKIE_HASH_KEY"`  // 32 or 64 bytes
	CookieBlockKey string `envconfig:"COOKIE_BLOCK_KEY"` // 16, 24, or 32 bytes
}
