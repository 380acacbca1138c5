package clientkv

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ClientKVClient is the client API for the ClientKV service, shaped the
// way protoc-gen-go-grpc would generate it from proto/clientkv.proto.
type ClientKVClient interface {
	Put(ctx context.Context, in *PutRequest, opts ...grpc.CallOption) (*PutResponse, error)
	Get(ctx context.Context, in *GetRequest, opts ...grpc.CallOption) (*GetResponse, error)
	List(ctx context.Context, in *ListRequest, opts ...grpc.CallOption) (*ListResponse, error)
	Delete(ctx context.Context, in *DeleteRequest, opts ...grpc.CallOption) (*DeleteResponse, error)
	DeleteAll(ctx context.Context, in *DeleteAllRequest, opts ...grpc.CallOption) (*DeleteAllResponse, error)
	Watch(ctx context.Context, in *WatchRequest, opts ...grpc.CallOption) (ClientKV_WatchClient, error)
}

type clientKVClient struct {
	cc grpc.ClientConnInterface
}

func NewClientKVClient(cc grpc.ClientConnInterface) ClientKVClient {
	return &clientKVClient{cc}
}

func (c *clientKVClient) Put(ctx context.Context, in *PutRequest, opts ...grpc.CallOption) (*PutResponse, error) {
	out := new(PutResponse)
	if err := c.cc.Invoke(ctx, "/clientkv.ClientKV/Put", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *clientKVClient) Get(ctx context.Context, in *GetRequest, opts ...grpc.CallOption) (*GetResponse, error) {
	out := new(GetResponse)
	if err := c.cc.Invoke(ctx, "/clientkv.ClientKV/Get", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *clientKVClient) List(ctx context.Context, in *ListRequest, opts ...grpc.CallOption) (*ListResponse, error) {
	out := new(ListResponse)
	if err := c.cc.Invoke(ctx, "/clientkv.ClientKV/List", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *clientKVClient) Delete(ctx context.Context, in *DeleteRequest, opts ...grpc.CallOption) (*DeleteResponse, error) {
	out := new(DeleteResponse)
	if err := c.cc.Invoke(ctx, "/clientkv.ClientKV/Delete", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *clientKVClient) DeleteAll(ctx context.Context, in *DeleteAllRequest, opts ...grpc.CallOption) (*DeleteAllResponse, error) {
	out := new(DeleteAllResponse)
	if err := c.cc.Invoke(ctx, "/clientkv.ClientKV/DeleteAll", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *clientKVClient) Watch(ctx context.Context, in *WatchRequest, opts ...grpc.CallOption) (ClientKV_WatchClient, error) {
	stream, err := c.cc.NewStream(ctx, &ClientKV_ServiceDesc.Streams[0], "/clientkv.ClientKV/Watch", opts...)
	if err != nil {
		return nil, err
	}
	x := &clientKVWatchClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

// ClientKV_WatchClient is the client-side handle for the Watch server
// stream.
type ClientKV_WatchClient interface {
	Recv() (*WatchEvent, error)
	grpc.ClientStream
}

type clientKVWatchClient struct {
	grpc.ClientStream
}

func (x *clientKVWatchClient) Recv() (*WatchEvent, error) {
	m := new(WatchEvent)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// ClientKVServer is the server API for the ClientKV service.
type ClientKVServer interface {
	Put(context.Context, *PutRequest) (*PutResponse, error)
	Get(context.Context, *GetRequest) (*GetResponse, error)
	List(context.Context, *ListRequest) (*ListResponse, error)
	Delete(context.Context, *DeleteRequest) (*DeleteResponse, error)
	DeleteAll(context.Context, *DeleteAllRequest) (*DeleteAllResponse, error)
	Watch(*WatchRequest, ClientKV_WatchServer) error
	mustEmbedUnimplementedClientKVServer()
}

// UnimplementedClientKVServer must be embedded by any concrete
// implementation, so adding a method to the service later doesn't break
// existing servers at compile time.
type UnimplementedClientKVServer struct{}

func (UnimplementedClientKVServer) Put(context.Context, *PutRequest) (*PutResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Put not implemented")
}
func (UnimplementedClientKVServer) Get(context.Context, *GetRequest) (*GetResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Get not implemented")
}
func (UnimplementedClientKVServer) List(context.Context, *ListRequest) (*ListResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method List not implemented")
}
func (UnimplementedClientKVServer) Delete(context.Context, *DeleteRequest) (*DeleteResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Delete not implemented")
}
func (UnimplementedClientKVServer) DeleteAll(context.Context, *DeleteAllRequest) (*DeleteAllResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteAll not implemented")
}
func (UnimplementedClientKVServer) Watch(*WatchRequest, ClientKV_WatchServer) error {
	return status.Error(codes.Unimplemented, "method Watch not implemented")
}
func (UnimplementedClientKVServer) mustEmbedUnimplementedClientKVServer() {}

// ClientKV_WatchServer is the server-side handle for the Watch server
// stream.
type ClientKV_WatchServer interface {
	Send(*WatchEvent) error
	grpc.ServerStream
}

type clientKVWatchServer struct {
	grpc.ServerStream
}

func (x *clientKVWatchServer) Send(m *WatchEvent) error {
	return x.ServerStream.SendMsg(m)
}

// RegisterClientKVServer registers srv with s under the ClientKV service
// name.
func RegisterClientKVServer(s grpc.ServiceRegistrar, srv ClientKVServer) {
	s.RegisterService(&ClientKV_ServiceDesc, srv)
}

func _ClientKV_Put_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(PutRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ClientKVServer).Put(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/clientkv.ClientKV/Put"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ClientKVServer).Put(ctx, req.(*PutRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ClientKV_Get_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ClientKVServer).Get(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/clientkv.ClientKV/Get"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ClientKVServer).Get(ctx, req.(*GetRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ClientKV_List_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ClientKVServer).List(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/clientkv.ClientKV/List"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ClientKVServer).List(ctx, req.(*ListRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ClientKV_Delete_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(DeleteRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ClientKVServer).Delete(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/clientkv.ClientKV/Delete"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ClientKVServer).Delete(ctx, req.(*DeleteRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ClientKV_DeleteAll_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(DeleteAllRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ClientKVServer).DeleteAll(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/clientkv.ClientKV/DeleteAll"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ClientKVServer).DeleteAll(ctx, req.(*DeleteAllRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ClientKV_Watch_Handler(srv any, stream grpc.ServerStream) error {
	m := new(WatchRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(ClientKVServer).Watch(m, &clientKVWatchServer{stream})
}

// ClientKV_ServiceDesc is the grpc.ServiceDesc for the ClientKV service.
var ClientKV_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "clientkv.ClientKV",
	HandlerType: (*ClientKVServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Put", Handler: _ClientKV_Put_Handler},
		{MethodName: "Get", Handler: _ClientKV_Get_Handler},
		{MethodName: "List", Handler: _ClientKV_List_Handler},
		{MethodName: "Delete", Handler: _ClientKV_Delete_Handler},
		{MethodName: "DeleteAll", Handler: _ClientKV_DeleteAll_Handler},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Watch",
			Handler:       _ClientKV_Watch_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "clientkv.proto",
}
