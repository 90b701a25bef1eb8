package hpl

import "encoding/json"

// ╔══════════════╗
//     Ws Event
// ╚══════════════╝

type wsGenericResponse struct {
	Channel string `json:"channel"`
}

type wsOrderResponse struct {
	Channel string         `json:"channel"`
	Data    []wsOrderEvent `json:"data"`
}

type wsOrderEvent struct {
	Order           basicOrder `json:"order"`
	Status          string     `json:"status"`
	StatusTimestamp int64      `json:"statusTimestamp"`
}

type basicOrder struct {
	Coin      string  `json:"coin"`
	Side      string  `json:"side"`
	LimitPx   string  `json:"limitPx"`
	Sz        string  `json:"sz"`
	Oid       int64   `json:"oid"`
	Timestamp int64   `json:"timestamp"`
	OrigSz    string  `json:"origSz"`
	Cloid     *string `json:"cloid,omitempty"`
}

// ╔════════════════════════╗
//    API request/response
// ╚════════════════════════╝

type universe struct {
	SzDecimals   int    `json:"szDecimals"`
	Name         string `json:"name"`
	MaxLeverage  int    `json:"maxLeverage"`
	OnlyIsolated bool   `json:"onlyIsolated"`
}

type tifType string

const (
	tifTypeIOC = tifType("Ioc")
	tifTypeGTC = tifType("Gtc")
)

type grouping string

const groupingNa grouping = "na"

type orderTypeWire struct {
	Limit *limit `msgpack:"limit,omitempty" json:"limit,omitempty"`
}

type limit struct {
	Tif tifType `msgpack:"tif" json:"tif"`
}

// field order matters: the msgpack encoding is hashed for the signature
type orderWire struct {
	Asset      int           `msgpack:"a" json:"a"`
	IsBuy      bool          `msgpack:"b" json:"b"`
	LimitPx    string        `msgpack:"p" json:"p"`
	SizePx     string        `msgpack:"s" json:"s"`
	ReduceOnly bool          `msgpack:"r" json:"r"`
	OrderType  orderTypeWire `msgpack:"t" json:"t"`
	Cloid      *string       `msgpack:"c,omitempty" json:"c,omitempty"`
}

type orderAction struct {
	Type     string      `msgpack:"type" json:"type"`
	Orders   []orderWire `msgpack:"orders" json:"orders"`
	Grouping string      `msgpack:"grouping" json:"grouping"`
}

type orderActionRequest struct {
	Action       any          `json:"action"`
	Nonce        int64        `json:"nonce"`
	Signature    RsvSignature `json:"signature"`
	VaultAddress *string      `json:"vaultAddress"`
}

type userInfoRequest struct {
	Type string `json:"type"`
	User string `json:"user"`
}

type orderStatusRequest struct {
	Type string `json:"type"`
	User string `json:"user"`
	Oid  int64  `json:"oid"`
}

type marketInfoResponse struct {
	Universe []universe `json:"universe"`
}

type openOrderResponse struct {
	Status   string          `json:"status"`
	Response json.RawMessage `json:"response"` // string on "err", object on "ok"
}

type openOrderResponseData struct {
	Type string `json:"type"`
	Data struct {
		Statuses []struct {
			Error   string `json:"error,omitempty"`
			Resting *struct {
				Oid int64 `json:"oid"`
			} `json:"resting,omitempty"`
			Filled *struct {
				Oid     int64  `json:"oid"`
				TotalSz string `json:"totalSz"`
				AvgPx   string `json:"avgPx"`
			} `json:"filled,omitempty"`
		} `json:"statuses"`
	} `json:"data"`
}

type orderStatusResponse struct {
	Status string `json:"status"` // "order" or "unknownOid"
	Order  *struct {
		Order           basicOrder `json:"order"`
		Status          string     `json:"status"`
		StatusTimestamp int64      `json:"statusTimestamp"`
	} `json:"order,omitempty"`
}

type clearinghouseStateResponse struct {
	MarginSummary struct {
		AccountValue string `json:"accountValue"`
	} `json:"marginSummary"`
	Withdrawable   string          `json:"withdrawable"`
	AssetPositions []assetPosition `json:"assetPositions"`
}

type assetPosition struct {
	Position struct {
		Coin    string `json:"coin"`
		Szi     string `json:"szi"`
		EntryPx string `json:"entryPx"`
	} `json:"position"`
}

// ╔════════════════════════╗
//         Signature
// ╚════════════════════════╝

type RsvSignature struct {
	R string `json:"r"`
	S string `json:"s"`
	V uint8  `json:"v"`
}
