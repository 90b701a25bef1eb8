package types

type ExchangeName string

const (
	ExchangeMock = ExchangeName("mock") // local simulated fills
	ExchangeHpl  = ExchangeName("hpl")
)
