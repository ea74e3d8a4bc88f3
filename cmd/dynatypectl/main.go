// Command dynatypectl is an operator CLI over the type registry,
// protobuf bridge, and diagnostic catalog: it loads a manifest,
// inspects registered types, and can start a gateway server. Grounded
// on cmd/funxy/main.go's os.Args-based subcommand dispatch and
// fmt.Fprintf(os.Stderr, ...) error reporting style.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/relaymesh/dynatype/internal/catalog"
	"github.com/relaymesh/dynatype/internal/gateway"
	"github.com/relaymesh/dynatype/internal/protobridge"
	"github.com/relaymesh/dynatype/internal/qiconfig"
	"github.com/relaymesh/dynatype/internal/qitype"
	"github.com/relaymesh/dynatype/internal/signature"
)

// Version can be overridden at build time: -ldflags "-X main.Version=1.2.3"
var Version = "dev"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "load":
		err = runLoad(os.Args[2:])
	case "inspect":
		err = runInspect(os.Args[2:])
	case "materialize":
		err = runMaterialize(os.Args[2:])
	case "serve":
		err = runServe(os.Args[2:])
	case "version":
		fmt.Println(Version)
		return
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <load|inspect|materialize|serve|version> ...\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  load <manifest.yaml> <catalog.db>          register a manifest's types and record it\n")
	fmt.Fprintf(os.Stderr, "  inspect <catalog.db>                        list previously recorded registrations\n")
	fmt.Fprintf(os.Stderr, "  materialize <signature>                     round-trip a signature string through the type system\n")
	fmt.Fprintf(os.Stderr, "  serve <gateway.yaml> <proto> [import-dir]   start a gRPC gateway from a config and .proto file\n")
}

func runLoad(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("load expects <manifest.yaml> <catalog.db>")
	}
	manifest, err := qiconfig.Load(args[0])
	if err != nil {
		return err
	}

	reg := qitype.NewRegistry()
	if err := manifest.Apply(reg); err != nil {
		return err
	}

	cat, err := catalog.Open(args[1])
	if err != nil {
		return err
	}
	defer cat.Close()

	ctx := context.Background()
	for _, entry := range manifest.Types {
		t, ok := reg.Get(qitype.NamedTypeInfo(entry.Name))
		if !ok {
			continue
		}
		if err := cat.RecordRegistration(ctx, entry.Name, t.Kind().String()); err != nil {
			return err
		}
	}

	fmt.Printf("registered %s type%s\n", humanize.Comma(int64(len(manifest.Types))), plural(len(manifest.Types)))
	return nil
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func runInspect(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("inspect expects <catalog.db>")
	}
	cat, err := catalog.Open(args[0])
	if err != nil {
		return err
	}
	defer cat.Close()

	ctx := context.Background()
	rows, err := cat.ListRegistrations(ctx)
	if err != nil {
		return err
	}
	failures, err := cat.FailureCount(ctx)
	if err != nil {
		return err
	}

	for _, r := range rows {
		if isatty.IsTerminal(os.Stdout.Fd()) {
			fmt.Printf("%-30s %-10s %s\n", r.TypeName, r.Kind, r.RecordedAt)
		} else {
			fmt.Printf("%s\t%s\t%s\n", r.TypeName, r.Kind, r.RecordedAt)
		}
	}
	fmt.Printf("%d type%s with recorded failures\n", failures, plural(failures))
	return nil
}

func runMaterialize(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("materialize expects <signature>")
	}
	reg := qitype.NewRegistry()
	t, err := signature.TypeFromSignatureString(reg, args[0])
	if err != nil {
		return err
	}
	sig, err := signature.DeclaredSignatureOf(t)
	if err != nil {
		return err
	}
	fmt.Println(sig.String())
	return nil
}

func runServe(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("serve expects <gateway.yaml> <proto> [import-dir]")
	}
	cfg, err := qiconfig.LoadGatewayConfig(args[0])
	if err != nil {
		return err
	}

	importPaths := []string{"."}
	if len(args) > 2 {
		importPaths = args[2:]
	}
	fds, err := protobridge.LoadFile(args[1], importPaths)
	if err != nil {
		return err
	}

	reg := qitype.NewRegistry()
	var services []*gateway.Service
	serviceByMethod := make(map[string]*gateway.Service)
	for _, fd := range fds {
		for _, sd := range fd.GetServices() {
			svc := gateway.NewService(reg, sd)
			services = append(services, svc)
			for _, md := range sd.GetMethods() {
				serviceByMethod[md.GetName()] = svc
			}
		}
	}
	if len(services) == 0 {
		return fmt.Errorf("no services found in %s", args[1])
	}

	for _, m := range cfg.Methods {
		svc, ok := serviceByMethod[m.Name]
		if !ok {
			return fmt.Errorf("gateway.yaml declares method %s, not found in %s", m.Name, args[1])
		}
		if err := svc.Register(m.Name, stubHandler(m.ReturnsSig)); err != nil {
			return err
		}
	}

	fmt.Printf("serving %d method%s on %s\n", len(cfg.Methods), plural(len(cfg.Methods)), cfg.Listen)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return gateway.Serve(ctx, cfg.Listen, services...)
}

// stubHandler materializes the zero value of returnsSig on every call,
// through the same signature.TypeFromSignatureString step
// runMaterialize uses. The gateway copies the answer onto the method's
// output message by element name, so only an annotated tuple whose
// names match the output fields fills them in; a non-tuple returnsSig
// makes the call fail.
func stubHandler(returnsSig string) gateway.Handler {
	return func(ctx context.Context, reg *qitype.Registry, req qitype.GenericValuePtr) (qitype.GenericValue, error) {
		t, err := signature.TypeFromSignatureString(reg, returnsSig)
		if err != nil {
			return qitype.GenericValue{}, err
		}
		storage, err := t.InitializeStorage(nil)
		if err != nil {
			return qitype.GenericValue{}, err
		}
		return qitype.GenericValue{Type: t, Storage: storage}, nil
	}
}
