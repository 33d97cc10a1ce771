package constants

import "github.com/go-playground/validator/v10"

type contextKey string

const (
	LoggerKey contextKey = "logger"
	PoolKey   contextKey = "pool"
	TxKey     contextKey = "tx"
)

// Validate is shared by every constructor that validates struct tags.
var Validate = validator.New(validator.WithRequiredStructEnabled())
