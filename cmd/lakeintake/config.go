package main

import (
	"fmt"
	"strings"

	"lakeintake/pkg/types"

	"github.com/kelseyhightower/envconfig"
)

func loadConfig() (*types.Config, error) {
	c := new(types.Config)
	if err := envconfig.Process("", c); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	if missing := missingConfig(c); len(missing) > 0 {
		return nil, fmt.Errorf("incomplete configuration, set: %s", strings.Join(missing, ", "))
	}

	if c.MaxFileBytes <= 0 {
		return nil, fmt.Errorf("MAX_FILE_BYTES must be positive")
	}

	for _, enum := range []struct {
		name   string
		values []string
	}{
		{"PRODUCTS", c.Products},
		{"DOC_TYPES", c.DocTypes},
		{"SUPPLIERS", c.Suppliers},
	} {
		if len(enum.values) == 0 {
			return nil, fmt.Errorf("%s must list at least one value", enum.name)
		}
	}

	return c, nil
}

// missingConfig reports every unset SmartSuite key at once so the operator
// can fix their environment in a single pass.
func missingConfig(c *types.Config) []string {
	var missing []string

	for _, check := range []struct {
		name, value string
	}{
		{"SMARTSUITE_API_KEY", c.SmartSuiteAPIKey},
		{"SMARTSUITE_WORKSPACE_ID", c.SmartSuiteWorkspaceID},
		{"SMARTSUITE_TABLE_ID", c.SmartSuiteTableID},
		{"SS_FIELD_PRODUCT", c.FieldProduct},
		{"SS_FIELD_TYPE", c.FieldType},
		{"SS_FIELD_SUPPLIER", c.FieldSupplier},
		{"SS_FIELD_FILENAME", c.FieldFilename},
		{"SS_FIELD_DOCUMENT", c.FieldDocument},
	} {
		if check.value == "" {
			missing = append(missing, check.name)
		}
	}

	return missing
}
