// Package introspect implements the optional read-only gRPC snapshot
// service SPEC_FULL.md §11 describes: a process can start it with
// `clay --introspect=:PORT <file>` to let an external tool poll the
// compiler-object table's population and each callable's invocation-table
// occupancy/hash-collision statistics.
//
// Grounded directly on the teacher's own gRPC surface
// (internal/evaluator/builtins_grpc.go): rather than a protoc-generated
// service (there is no .proto build step in this repository), the
// message and service descriptors are parsed at startup from an embedded
// .proto source via jhump/protoreflect's protoparse, and requests are
// served as dynamic.Message values the same way the teacher's
// FunxyGrpcHandler bridges an ad hoc proto service to a hand-built
// grpc.ServiceDesc. This keeps the snapshot schema extensible (add a
// field to the embedded .proto) without regenerating any stub code.
package introspect

import (
	"context"
	"fmt"
	"net"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"

	"github.com/clayscript/clay/internal/ast"
	"github.com/clayscript/clay/internal/env"
	"github.com/clayscript/clay/internal/invocation"
	"github.com/clayscript/clay/internal/object"
)

const protoSource = `
syntax = "proto3";
package clay.introspect;

message Empty {}

message CallableStats {
  string name = 1;
  int32 arity = 2;
  int32 entryCount = 3;
  int32 maxChainDepth = 4;
}

message Snapshot {
  map<string, int32> objectCounts = 1;
  repeated CallableStats callables = 2;
}

service Introspect {
  rpc GetSnapshot(Empty) returns (Snapshot);
}
`

const protoFilename = "clay_introspect.proto"

// Source is a named group of invocation tables to report on; RegisterModule
// adds one entry per declared procedure and one per overloadable arity,
// whether or not it was ever called (spec.md §4.3's per-callable
// invocation table).
type Source struct {
	Name  string
	Arity int
	Table *invocation.Table
}

// Server is the introspection service: a read-only view over the
// process-wide object index plus whatever invocation-table Sources have
// been registered with it so far.
type Server struct {
	Objects *object.Index
	Sources []Source

	fd     *desc.FileDescriptor
	sd     *desc.ServiceDescriptor
	server *grpc.Server
}

// NewServer parses the embedded descriptor and builds an unstarted
// Server over ix. Sources are registered afterward via Register, since
// the driver only learns a callable's invocation table lazily, on its
// first call.
func NewServer(ix *object.Index) (*Server, error) {
	parser := protoparse.Parser{
		Accessor: protoparse.FileContentsFromMap(map[string]string{protoFilename: protoSource}),
	}
	fds, err := parser.ParseFiles(protoFilename)
	if err != nil {
		return nil, fmt.Errorf("introspect: parsing embedded descriptor: %w", err)
	}
	fd := fds[0]
	sd := fd.FindService("clay.introspect.Introspect")
	if sd == nil {
		return nil, fmt.Errorf("introspect: service descriptor not found")
	}
	return &Server{Objects: ix, fd: fd, sd: sd}, nil
}

// Register adds a callable's invocation table to the snapshot. Safe to
// call repeatedly as the driver resolves more callables; the server
// reads s.Sources fresh on every GetSnapshot call, never caching.
func (s *Server) Register(name string, arity int, t *invocation.Table) {
	s.Sources = append(s.Sources, Source{Name: name, Arity: arity, Table: t})
}

// RegisterModule walks m's own globals (not its imports) and registers
// every procedure/overloadable's invocation table(s). It appends to
// s.Sources and removes nothing, so calling it twice for one module lists
// that module's callables twice. Since a ProcedureItem's
// InvocationTable and an OverloadableItem's per-arity tables are created
// lazily on first call, this is meant to be called after a run -- tables
// a program never exercised are reported with a zero entry count rather
// than omitted, matching the "read-only snapshot" contract (absence
// should mean "never declared", not "never analyzed yet").
func (s *Server) RegisterModule(m *env.Module) {
	for name, obj := range m.Globals {
		switch it := obj.(type) {
		case *ast.ProcedureItem:
			table, _ := it.InvocationTable.(*invocation.Table)
			if table == nil {
				table = invocation.NewTable(0)
			}
			s.Register(name, len(it.Code.Formals), table)
		case *ast.OverloadableItem:
			if len(it.InvocationTables) == 0 {
				s.Register(name, -1, nil)
				continue
			}
			for arity, raw := range it.InvocationTables {
				table, _ := raw.(*invocation.Table)
				s.Register(name, arity, table)
			}
		}
	}
}

// Start begins serving on addr in a background goroutine. Call Stop to
// shut down gracefully.
func (s *Server) Start(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("introspect: listening on %s: %w", addr, err)
	}

	s.server = grpc.NewServer()
	method := s.sd.GetMethods()[0]
	s.server.RegisterService(&grpc.ServiceDesc{
		ServiceName: s.sd.GetFullyQualifiedName(),
		HandlerType: (*any)(nil),
		Metadata:    s.sd.GetFile().GetName(),
		Methods: []grpc.MethodDesc{{
			MethodName: method.GetName(),
			Handler: func(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
				in := dynamic.NewMessage(method.GetInputType())
				if err := dec(in); err != nil {
					return nil, err
				}
				return s.handleSnapshot(method)
			},
		}},
	}, s)

	go s.server.Serve(lis) //nolint:errcheck // Stop()'s GracefulStop tears this down; a post-Stop Serve error is expected and unreportable

	return nil
}

// Stop gracefully shuts the server down. A no-op if Start was never
// called.
func (s *Server) Stop() {
	if s.server != nil {
		s.server.GracefulStop()
	}
}

// handleSnapshot builds the Snapshot dynamic.Message from the current
// object index and registered invocation-table Sources.
func (s *Server) handleSnapshot(method *desc.MethodDescriptor) (*dynamic.Message, error) {
	out := dynamic.NewMessage(method.GetOutputType())

	counts := make(map[any]any, len(s.Objects.Snapshot()))
	for k, v := range s.Objects.Snapshot() {
		counts[k] = int32(v)
	}
	if err := out.TrySetFieldByName("objectCounts", counts); err != nil {
		return nil, fmt.Errorf("introspect: setting objectCounts: %w", err)
	}

	callableType := method.GetOutputType().FindFieldByName("callables").GetMessageType()
	for _, src := range s.Sources {
		entry := dynamic.NewMessage(callableType)
		count, maxDepth := 0, 0
		if src.Table != nil {
			count, maxDepth = src.Table.Occupancy()
		}
		if err := entry.TrySetFieldByName("name", src.Name); err != nil {
			return nil, err
		}
		if err := entry.TrySetFieldByName("arity", int32(src.Arity)); err != nil {
			return nil, err
		}
		if err := entry.TrySetFieldByName("entryCount", int32(count)); err != nil {
			return nil, err
		}
		if err := entry.TrySetFieldByName("maxChainDepth", int32(maxDepth)); err != nil {
			return nil, err
		}
		if err := out.TryAddRepeatedFieldByName("callables", entry); err != nil {
			return nil, fmt.Errorf("introspect: appending callable stats: %w", err)
		}
	}

	return out, nil
}
