// Package models defines data structures and domain types.
package models

// Provider identifies a payment provider.
type Provider string

const (
	// ProviderStripe is the Stripe charges API.
	ProviderStripe Provider = "stripe"
	// ProviderPayPal is either PayPal API flavour.
	ProviderPayPal Provider = "paypal"
)

// Label returns the provider name as shown in error entries.
func (p Provider) Label() string {
	switch p {
	case ProviderStripe:
		return "Stripe"
	case ProviderPayPal:
		return "PayPal"
	default:
		return string(p)
	}
}

// Project is one monitored business with its provider credentials.
// Projects are loaded once at startup and never mutated afterwards.
type Project struct {
	ID     string
	Name   string
	Stripe StripeConfig
	PayPal PayPalConfig
}

// StripeConfig holds the Stripe settings of a project.
type StripeConfig struct {
	Enabled bool
	APIKey  string
}

// Configured reports whether Stripe should be queried for the project.
func (c StripeConfig) Configured() bool {
	return c.Enabled && c.APIKey != ""
}

// PayPalConfig holds the PayPal settings of a project. Credentials is nil
// when no complete credential set was found in the configuration.
type PayPalConfig struct {
	Enabled     bool
	Sandbox     bool
	Credentials PayPalCredentials
}

// Configured reports whether PayPal should be queried for the project.
func (c PayPalConfig) Configured() bool {
	return c.Enabled && c.Credentials != nil
}

// HasStripe reports whether the Stripe flag is on, regardless of credentials.
func (p Project) HasStripe() bool { return p.Stripe.Enabled }

// HasPayPal reports whether the PayPal flag is on, regardless of credentials.
func (p Project) HasPayPal() bool { return p.PayPal.Enabled }

// PayPalCredentials is the set of supported PayPal credential variants.
// Implementations are ClassicCredentials and RESTCredentials.
type PayPalCredentials interface {
	Variant() CredentialVariant
}

// CredentialVariant names the shape a PayPal credential set was resolved from.
type CredentialVariant int

const (
	// VariantClassic is the NVP username/password/signature triple.
	VariantClassic CredentialVariant = iota
	// VariantREST is restApi.clientId/secret.
	VariantREST
	// VariantLegacy is a top-level clientId/secret pair.
	VariantLegacy
)

// String returns the display name of the variant.
func (v CredentialVariant) String() string {
	switch v {
	case VariantClassic:
		return "classic"
	case VariantREST:
		return "rest"
	case VariantLegacy:
		return "legacy"
	default:
		return "unknown"
	}
}

// ClassicCredentials authenticate against the PayPal NVP API.
type ClassicCredentials struct {
	Username  string
	Password  string
	Signature string
}

// Variant implements PayPalCredentials.
func (ClassicCredentials) Variant() CredentialVariant { return VariantClassic }

// RESTCredentials authenticate against the PayPal REST API with OAuth
// client credentials. Legacy marks the old top-level config fields.
type RESTCredentials struct {
	ClientID string
	Secret   string
	Legacy   bool
}

// Variant implements PayPalCredentials.
func (c RESTCredentials) Variant() CredentialVariant {
	if c.Legacy {
		return VariantLegacy
	}
	return VariantREST
}
