package hpl

import (
	"botleague/pkg/utils"
	"crypto/ecdsa"
	"encoding/binary"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/vmihailenco/msgpack/v5"
)

const VERIFYING_CONTRACT = "0x0000000000000000000000000000000000000000"

var nonceCounter int64

func getNonce() int64 {
	nonce := atomic.AddInt64(&nonceCounter, 1) + time.Now().UnixMilli()
	return nonce
}

// signer produces L1 action signatures for one account.
type signer struct {
	privKey   *ecdsa.PrivateKey
	isMainnet bool
}

func (s *signer) signAction(action any, vaultAddress string, nonce int64) (RsvSignature, error) {
	hash, err := hashAction(action, vaultAddress, uint64(nonce))
	if err != nil {
		return RsvSignature{}, err
	}
	digest, err := agentDigest(s.source(), hash.Bytes())
	if err != nil {
		return RsvSignature{}, err
	}
	sig, err := crypto.Sign(digest, s.privKey)
	if err != nil {
		return RsvSignature{}, err
	}
	v, r, sv := utils.SignatureToVRS(sig)
	return getRsvSignature(r, sv, v), nil
}

// source is "a" on mainnet and "b" on testnet
func (s *signer) source() string {
	if s.isMainnet {
		return "a"
	}
	return "b"
}

func hashAction(action any, vaultAddress string, nonce uint64) (common.Hash, error) {
	data, err := msgpack.Marshal(action)
	if err != nil {
		return common.Hash{}, fmt.Errorf("fail to pack the data: %v: %w", action, err)
	}

	nonceBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(nonceBytes, nonce)
	data = append(data, nonceBytes...)
	if vaultAddress == "" {
		data = append(data, 0x00)
	} else {
		data = append(data, 0x01)
		vaultAddressBytes, err := utils.HexToBytes(vaultAddress)
		if err != nil {
			return common.Hash{}, err
		}
		data = append(data, vaultAddressBytes...)
	}
	return crypto.Keccak256Hash(data), nil
}

// agentDigest is the EIP-712 hash of the phantom agent signed for every action.
func agentDigest(source string, connectionId []byte) ([]byte, error) {
	typedData := apitypes.TypedData{
		Types: apitypes.Types{
			"Agent": []apitypes.Type{
				{Name: "source", Type: "string"},
				{Name: "connectionId", Type: "bytes32"},
			},
			"EIP712Domain": {
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
		},
		PrimaryType: "Agent",
		Domain: apitypes.TypedDataDomain{
			Name:              "Exchange",
			Version:           "1",
			ChainId:           math.NewHexOrDecimal256(1337), // same chainId on testnet and mainnet
			VerifyingContract: VERIFYING_CONTRACT,
		},
		Message: apitypes.TypedDataMessage{
			"source":       source,
			"connectionId": connectionId,
		},
	}

	digest, _, err := apitypes.TypedDataAndHash(typedData)
	if err != nil {
		return nil, err
	}
	return digest, nil
}

func getRsvSignature(r [32]byte, s [32]byte, v byte) RsvSignature {
	return RsvSignature{
		R: hexutil.Encode(r[:]),
		S: hexutil.Encode(s[:]),
		V: v,
	}
}
