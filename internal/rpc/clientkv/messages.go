// Package clientkv is the hand-authored Go counterpart of
// proto/clientkv.proto — message types and service plumbing shaped the
// way protoc-gen-go/protoc-gen-go-grpc would generate them, carried over
// the wire by internal/rpc's JSON codec rather than real protobuf
// encoding (see internal/rpc/codec.go).
package clientkv

type PutRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type PutResponse struct{}

type GetRequest struct {
	Key string `json:"key"`
}

type GetResponse struct {
	Value string `json:"value"`
	Found bool   `json:"found"`
}

type ListRequest struct {
	Prefix string `json:"prefix"`
}

type KV struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type ListResponse struct {
	Items []KV `json:"items"`
}

type DeleteRequest struct {
	Key string `json:"key"`
}

type DeleteResponse struct{}

type DeleteAllRequest struct{}

type DeleteAllResponse struct{}

type WatchRequest struct {
	Key string `json:"key"`
}

type WatchEvent struct {
	Key   string `json:"key"`
	Type  string `json:"type"`
	Value string `json:"value"`
}
