package session

import (
	"github.com/celer-network/capps-go/internal/pkg/channel"
)

type Record struct {
	channel.Core

	State byte `json:"state"`
}

func newRecord() *Record {
	//nolint:exhaustruct
	return &Record{}
}

type StateResponse struct {
	Value uint8 `json:"value"`
}
