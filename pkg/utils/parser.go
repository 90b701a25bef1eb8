package utils

import (
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
)

func RoundFloat(val float64, decimals int64) float64 {
	ratio := math.Pow(10, float64(decimals))
	return math.Round(val*ratio) / ratio
}

func StrToFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	return f, err
}

func FloatToStr(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func HexToBytes(val string) ([]byte, error) {
	if len(val) > 2 && val[:2] == "0x" {
		val = val[2:]
	}
	bytes, err := hex.DecodeString(val)
	if err != nil {
		return nil, fmt.Errorf("fail to parse address to bytes: %v", val)
	}
	return bytes, nil
}

func SignatureToVRS(sig []byte) (byte, [32]byte, [32]byte) {
	var v byte
	var r [32]byte
	var s [32]byte

	v = sig[64] + 27
	copy(r[:], sig[:32])
	copy(s[:], sig[32:64])

	return v, r, s
}

func RoundToSigFigs(val float64, sigFigs int) float64 {
	if val == 0 {
		return 0
	}
	d := math.Ceil(math.Log10(math.Abs(val)))
	power := float64(sigFigs) - d
	magnitude := math.Pow(10, power)
	return math.Round(val*magnitude) / magnitude
}
