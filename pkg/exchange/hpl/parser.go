package hpl

import (
	"botleague/pkg/types"
	"botleague/pkg/utils"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

func parseOrderSide(orderSide string) (bool, error) {
	switch strings.ToUpper(orderSide) {
	case "B":
		return true, nil
	case "A":
		return false, nil
	default:
		return false, fmt.Errorf("unknown orderSide: %v", orderSide)
	}
}

func parseBasicOrder(o basicOrder, status string, statusTime int64) (*OrderStatusResult, error) {
	isBuy, err := parseOrderSide(o.Side)
	if err != nil {
		return nil, err
	}
	price, err := utils.StrToFloat(o.LimitPx)
	if err != nil {
		return nil, fmt.Errorf("fail to parse price: %w", err)
	}
	remQty, err := utils.StrToFloat(o.Sz)
	if err != nil {
		return nil, fmt.Errorf("fail to parse remaining quantity: %w", err)
	}
	origQty := remQty
	if o.OrigSz != "" {
		origQty, err = utils.StrToFloat(o.OrigSz)
		if err != nil {
			return nil, fmt.Errorf("fail to parse original quantity: %w", err)
		}
	}
	ts := o.Timestamp
	if ts == 0 {
		ts = statusTime
	}
	return &OrderStatusResult{
		Oid:        strconv.FormatInt(o.Oid, 10),
		Status:     status,
		Coin:       o.Coin,
		IsBuy:      isBuy,
		Size:       origQty,
		LimitPx:    price,
		FilledSize: origQty - remQty,
		Timestamp:  time.UnixMilli(ts),
	}, nil
}

func parseOrderStatusResponse(resBody []byte) (*OrderStatusResult, error) {
	var res orderStatusResponse
	if err := json.Unmarshal(resBody, &res); err != nil {
		return nil, err
	}
	if res.Status != "order" || res.Order == nil {
		// "unknownOid"
		return nil, nil
	}
	return parseBasicOrder(res.Order.Order, res.Order.Status, res.Order.StatusTimestamp)
}

func parsePlaceOrderResponse(resBody []byte) (string, error) {
	var res openOrderResponse
	if err := json.Unmarshal(resBody, &res); err != nil {
		return "", err
	}
	if res.Status != "ok" {
		var msg string
		if err := json.Unmarshal(res.Response, &msg); err != nil {
			msg = string(res.Response)
		}
		return "", fmt.Errorf("exchange rejected action: %s", msg)
	}

	var data openOrderResponseData
	if err := json.Unmarshal(res.Response, &data); err != nil {
		return "", err
	}
	if len(data.Data.Statuses) == 0 {
		return "", errors.New("order status is missing from the response")
	}
	var errs []string
	for _, status := range data.Data.Statuses {
		if errMsg := status.Error; errMsg != "" {
			errs = append(errs, errMsg)
		}
	}
	if len(errs) > 0 {
		return "", errors.New(strings.Join(errs, "; "))
	}

	status := data.Data.Statuses[0]
	switch {
	case status.Resting != nil:
		return strconv.FormatInt(status.Resting.Oid, 10), nil
	case status.Filled != nil:
		return strconv.FormatInt(status.Filled.Oid, 10), nil
	default:
		return "", errors.New("oId is missing from the response")
	}
}

func parseClearinghouseState(resBody []byte) (clearinghouseStateResponse, error) {
	var res clearinghouseStateResponse
	err := json.Unmarshal(resBody, &res)
	return res, err
}

func parsePositions(res clearinghouseStateResponse) ([]types.Position, error) {
	positions := []types.Position{}
	for _, pos := range res.AssetPositions {
		qty, err := utils.StrToFloat(pos.Position.Szi)
		if err != nil {
			return nil, err
		}
		if qty == 0 {
			continue
		}
		entryPx := 0.0
		if pos.Position.EntryPx != "" {
			entryPx, err = utils.StrToFloat(pos.Position.EntryPx)
			if err != nil {
				return nil, err
			}
		}
		positions = append(positions, types.Position{
			Symbol:     convertCoinToSymbol(pos.Position.Coin),
			EntryPrice: entryPx,
			Qty:        absFloat(qty),
			Side:       convertOrderSide(qty > 0),
		})
	}
	return positions, nil
}

func parseAccountInfo(res clearinghouseStateResponse) (*types.AccountInfo, error) {
	equity, err := utils.StrToFloat(res.MarginSummary.AccountValue)
	if err != nil {
		return nil, fmt.Errorf("fail to parse account value: %w", err)
	}
	balance := equity
	if res.Withdrawable != "" {
		balance, err = utils.StrToFloat(res.Withdrawable)
		if err != nil {
			return nil, fmt.Errorf("fail to parse withdrawable: %w", err)
		}
	}
	return &types.AccountInfo{Balance: balance, Equity: equity}, nil
}

func parseMids(resBody []byte) (map[string]float64, error) {
	var raw map[string]string
	if err := json.Unmarshal(resBody, &raw); err != nil {
		return nil, err
	}
	mids := make(map[string]float64, len(raw))
	for coin, px := range raw {
		f, err := utils.StrToFloat(px)
		if err != nil {
			continue
		}
		mids[coin] = f
	}
	return mids, nil
}

// parseOrderUpdates returns nil for every message that is not an orderUpdates
// push (e.g. subscriptionResponse or pong).
func parseOrderUpdates(e []byte) ([]OrderStatusResult, error) {
	var wsRes wsGenericResponse
	if err := json.Unmarshal(e, &wsRes); err != nil {
		return nil, err
	}
	if wsRes.Channel != "orderUpdates" {
		return nil, nil
	}

	var res wsOrderResponse
	if err := json.Unmarshal(e, &res); err != nil {
		return nil, err
	}
	updates := make([]OrderStatusResult, 0, len(res.Data))
	for _, evt := range res.Data {
		u, err := parseBasicOrder(evt.Order, evt.Status, evt.StatusTimestamp)
		if err != nil {
			return nil, err
		}
		updates = append(updates, *u)
	}
	return updates, nil
}
