package logtrace

// Fields is a type alias for structured log fields
type Fields map[string]interface{}

// WithFields returns a copy of base with extra fields merged in.
func WithFields(base Fields, extra Fields) Fields {
	fields := Fields{}
	for key, value := range base {
		fields[key] = value
	}
	for key, value := range extra {
		fields[key] = value
	}
	return fields
}

const (
	FieldCorrelationID = "correlation_id"
	FieldOrigin        = "origin"
	FieldMethod        = "method"
	FieldModule        = "module"
	FieldError         = "error"
	FieldStatus        = "status"
	FieldNetwork       = "network"
	FieldURL           = "url"
	FieldAddress       = "address"
	FieldKeyName       = "key_name"
	FieldTxHash        = "tx_hash"
	FieldHashHex       = "hash_hex"
	FieldCount         = "validators_count"
	FieldRegion        = "region"
)

const (
	ValueStakingAPI = "staking-api"
	ValueSigner     = "signer"
	ValueKeyring    = "keyring"
	ValueProvision  = "provision"
	ValueConfig     = "config"
)
