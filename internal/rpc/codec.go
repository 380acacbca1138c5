// Package rpc hosts the gRPC wire-level plumbing shared by the
// clientkv and raftkv services: a JSON encoding.Codec standing in for
// protoc-generated protobuf marshaling, since this repository is built
// without ever invoking protoc.
package rpc

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/encoding"
)

// CodecName is registered with google.golang.org/grpc/encoding under the
// name protobuf codecs normally use ("proto"), so grpc.NewServer and
// grpc.NewClient pick it up without any extra dial/server option — every
// message in internal/rpc/clientkv and internal/rpc/raftkv is a plain
// JSON-tagged struct rather than a generated protobuf type.
const CodecName = "proto"

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("rpc: marshal %T: %w", v, err)
	}
	return data, nil
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("rpc: unmarshal into %T: %w", v, err)
	}
	return nil
}

func (jsonCodec) Name() string { return CodecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
