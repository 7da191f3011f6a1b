package upgrader

import (
	"strings"

	"github.com/pgupgrader/pgupgrader/pkg/postgres"
)

// schemaPlaceholder is replaced in every step body with the active schema
// name, so one set of upgrade files can serve multiple schemas.
const schemaPlaceholder = "{{SCHEMA}}"

type (
	// Options carries the upgrade settings. The zero value targets the
	// default search path with TLS disabled; use NewOptions to customize.
	Options struct {
		schema       string
		createSchema bool
		sslMode      postgres.SSLMode
	}

	// OptionsBuilder assembles Options one setting at a time.
	OptionsBuilder struct {
		opts Options
	}
)

// NewOptions returns a builder preloaded with the defaults.
func NewOptions() *OptionsBuilder {
	return &OptionsBuilder{}
}

// Schema sets the schema every step runs against. When empty, steps run on
// the connection's default search path.
func (b *OptionsBuilder) Schema(name string) *OptionsBuilder {
	b.opts.schema = name
	return b
}

// CreateSchema makes the upgrade create the target schema when it does not
// exist yet, instead of failing.
func (b *OptionsBuilder) CreateSchema(create bool) *OptionsBuilder {
	b.opts.createSchema = create
	return b
}

// SSLMode sets the TLS requirement for the connection.
func (b *OptionsBuilder) SSLMode(mode postgres.SSLMode) *OptionsBuilder {
	b.opts.sslMode = mode
	return b
}

// Build returns the assembled Options.
func (b *OptionsBuilder) Build() Options {
	return b.opts
}

// Schema reports the configured schema name, empty when unset.
func (o Options) Schema() string { return o.schema }

// CreateSchema reports whether a missing schema should be created.
func (o Options) CreateSchema() bool { return o.createSchema }

// SSLMode reports the configured TLS requirement.
func (o Options) SSLMode() postgres.SSLMode { return o.sslMode }

// SubstituteSchema replaces the schema placeholder in sql with the
// configured schema name. With no schema configured, sql is returned
// unchanged.
func (o Options) SubstituteSchema(sql string) string {
	if o.schema == "" {
		return sql
	}
	return strings.ReplaceAll(sql, schemaPlaceholder, o.schema)
}
