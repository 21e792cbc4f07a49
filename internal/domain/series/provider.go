package series

// Provider defines the interface for price series sources
type Provider interface {
	// Series returns up to bars chronologically ordered bars for a symbol
	Series(symbol string, bars int) (Series, error)

	// Name identifies the provider in logs and run metadata
	Name() string
}
