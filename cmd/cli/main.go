package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"fraddriso20022/internal/address"
	"fraddriso20022/internal/config"
	"fraddriso20022/internal/logger"
	"fraddriso20022/internal/storage"

	"go.uber.org/zap"
)

const usage = `usage: fraddr <command> [flags]

commands:
  add      --kind company|particular -a..-g <line>   store a French address
  get      --id ID                                   print a stored address
  update   --id ID --kind K [-a..-g <line>]          replace the given lines
  delete   --id ID                                   remove an address
  convert  --id ID                                   print the French lines
  list                                               print every address
`

var errUsage = errors.New("invalid usage")

var openStorage = storage.Open

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			logger.L().Error("command failed", zap.Error(err))
		}
		os.Exit(1)
	}
}

// optionalLine is a flag that remembers whether it was set at all.
type optionalLine struct {
	value *string
}

func (o *optionalLine) String() string {
	if o.value == nil {
		return ""
	}
	return *o.value
}

func (o *optionalLine) Set(s string) error {
	o.value = &s
	return nil
}

type lineFlags [7]optionalLine

func (l *lineFlags) register(fs *flag.FlagSet) {
	for i, name := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		fs.Var(&l[i], name, fmt.Sprintf("line %d", i+1))
	}
}

func (l *lineFlags) address() address.FrenchAddress {
	return address.FrenchAddress{
		Line1: l[0].value, Line2: l[1].value, Line3: l[2].value, Line4: l[3].value,
		Line5: l[4].value, Line6: l[5].value, Line7: l[6].value,
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return errUsage
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	cmd, rest := args[0], args[1:]

	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)
	id := fs.String("id", "", "address id")
	kindName := fs.String("kind", "", "company or particular")
	var lines lineFlags

	switch cmd {
	case "add", "update":
		lines.register(fs)
	case "get", "delete", "convert", "list":
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", cmd, usage)
		return errUsage
	}

	if err := fs.Parse(rest); err != nil {
		return errUsage
	}

	needID := cmd != "add" && cmd != "list"
	if needID && *id == "" {
		fmt.Fprintf(stderr, "%s: --id is required\n", cmd)
		return errUsage
	}

	var kind address.Kind
	if cmd == "add" || cmd == "update" {
		if kind, err = address.ParseKind(*kindName); err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", cmd, err)
			return errUsage
		}
	}

	repo, closeRepo, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepo(context.Background())

	svc := address.NewService(repo, nil)

	switch cmd {
	case "add":
		addr, err := svc.Create(ctx, address.CreateAddressInput{Kind: kind, Lines: lines.address()})
		if err != nil {
			return reportError(stdout, *id, err)
		}
		fmt.Fprintf(stdout, "Address added successfully with ID: %s\n", addr.ID)

	case "get":
		addr, err := svc.Get(ctx, *id)
		if err != nil {
			return reportError(stdout, *id, err)
		}
		return printJSON(stdout, addr)

	case "update":
		_, err := svc.Update(ctx, address.UpdateAddressInput{AddressID: *id, Kind: kind, Lines: lines.address()})
		if err != nil {
			return reportError(stdout, *id, err)
		}
		fmt.Fprintf(stdout, "Address %s updated successfully\n", *id)

	case "delete":
		if err := svc.Delete(ctx, *id); err != nil {
			return reportError(stdout, *id, err)
		}
		fmt.Fprintf(stdout, "Address %s deleted successfully\n", *id)

	case "convert":
		fr, err := svc.ConvertStored(ctx, *id)
		if err != nil {
			return reportError(stdout, *id, err)
		}
		return printJSON(stdout, fr)

	case "list":
		list, err := svc.List(ctx)
		if err != nil {
			return err
		}
		return printJSON(stdout, list)
	}

	return nil
}

// reportError prints user-facing failures and passes the rest through.
// A missing address is reported but is not a failure.
func reportError(w io.Writer, id string, err error) error {
	switch {
	case errors.Is(err, address.ErrAddressNotFound):
		fmt.Fprintf(w, "Address with ID %s not found\n", id)
		return nil
	case errors.Is(err, address.ErrInvalidAddress):
		fmt.Fprintf(w, "Invalid address: %v\n", err)
		return errUsage
	default:
		return err
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
