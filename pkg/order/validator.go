package order

import "botleague/pkg/market"

// Validate rejects orders below the token's minimum size.
func Validate(req Request) error {
	minSize := market.MinOrderSize(req.Token)
	if req.Size < minSize {
		return &ValidationError{Token: req.Token, Size: req.Size, MinSize: minSize}
	}
	return nil
}
