package chain

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

// Snapshot is the persisted form of the committed chain
type Snapshot struct {
	ChainID  uint64                      `json:"chainId"`
	Block    uint64                      `json:"block"`
	TxCount  uint64                      `json:"txCount"`
	Accounts map[common.Address]*Account `json:"accounts"`
	Logs     []StoredLog                 `json:"logs"`
}

// StoredLog is the JSON form of a committed log
type StoredLog struct {
	Address     common.Address `json:"address"`
	Topics      []common.Hash  `json:"topics"`
	Data        hexutil.Bytes  `json:"data"`
	BlockNumber uint64         `json:"blockNumber"`
	BlockHash   common.Hash    `json:"blockHash"`
	TxHash      common.Hash    `json:"transactionHash"`
	TxIndex     uint           `json:"transactionIndex"`
	Index       uint           `json:"logIndex"`
}

// SnapshotStore persists chain snapshots. Load returns nil, nil when nothing
// has been stored yet.
type SnapshotStore interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snapshot *Snapshot) error
}

func storeLog(l types.Log) StoredLog {
	return StoredLog{
		Address:     l.Address,
		Topics:      append([]common.Hash(nil), l.Topics...),
		Data:        append(hexutil.Bytes(nil), l.Data...),
		BlockNumber: l.BlockNumber,
		BlockHash:   l.BlockHash,
		TxHash:      l.TxHash,
		TxIndex:     l.TxIndex,
		Index:       l.Index,
	}
}

func (l StoredLog) toLog() types.Log {
	return types.Log{
		Address:     l.Address,
		Topics:      append([]common.Hash(nil), l.Topics...),
		Data:        append([]byte(nil), l.Data...),
		BlockNumber: l.BlockNumber,
		BlockHash:   l.BlockHash,
		TxHash:      l.TxHash,
		TxIndex:     l.TxIndex,
		Index:       l.Index,
	}
}
