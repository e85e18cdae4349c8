package service

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/vietddude/dispatcher/internal/core/domain"
)

// GRPCOperation dispatches items over a shared gRPC connection using a
// generic struct payload, so no generated client is required. The full
// method name ("/package.Service/Method") comes from configuration.
type GRPCOperation struct {
	endpoint string
	method   string
	conn     *grpc.ClientConn
}

// NewGRPCOperation creates a gRPC-based operation.
func NewGRPCOperation(endpoint, method string) (*GRPCOperation, error) {
	// Parse endpoint to determine if TLS is needed
	target := endpoint
	var opts []grpc.DialOption

	if strings.HasPrefix(endpoint, "https://") || strings.HasSuffix(endpoint, ":443") {
		creds := credentials.NewTLS(&tls.Config{})
		opts = append(opts, grpc.WithTransportCredentials(creds))
		target = strings.TrimPrefix(target, "https://")
	} else {
		opts = append(opts, grpc.WithTransportCredentials(insecure.NewCredentials()))
		target = strings.TrimPrefix(target, "http://")
	}

	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create grpc client for %s: %w", target, err)
	}

	return &GRPCOperation{
		endpoint: endpoint,
		method:   method,
		conn:     conn,
	}, nil
}

// Name identifies the operation in logs.
func (o *GRPCOperation) Name() string { return "grpc" }

// Call invokes the configured method with {id, payload} and returns the
// reply's data field.
func (o *GRPCOperation) Call(ctx context.Context, item domain.WorkItem) (string, error) {
	req, err := structpb.NewStruct(map[string]any{
		"id":      item.ID,
		"payload": item.Payload,
	})
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	reply := &structpb.Struct{}
	if err := o.conn.Invoke(ctx, o.method, req, reply); err != nil {
		if st, ok := status.FromError(err); ok {
			return "", fmt.Errorf("grpc %s: %s", st.Code(), st.Message())
		}
		return "", fmt.Errorf("grpc call: %w", err)
	}

	if data, ok := reply.Fields["data"]; ok {
		return data.GetStringValue(), nil
	}
	return reply.String(), nil
}

// Close cleans up resources.
func (o *GRPCOperation) Close() error {
	return o.conn.Close()
}
