// Command ignitedb is a thin one-shot CLI around pkg/ignitedb:
// `ignitedb FILE op KEY [VALUE]`.
//
// Argument parsing and output formatting here are peripheral to the
// store itself; this binary exists only to give the engine an external
// caller.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iamNilotpal/ignitedb/pkg/errors"
	"github.com/iamNilotpal/ignitedb/pkg/ignitedb"
	"github.com/iamNilotpal/ignitedb/pkg/options"
	flag "github.com/spf13/pflag"
)

const usage = `Usage: ignitedb [flags] FILE OP KEY [VALUE]

  FILE   path to the data file (directory is created if missing)
  OP     one of: get, insert, update, delete, find
  KEY    the key to operate on
  VALUE  required for insert and update, ignored otherwise

Flags:
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flagSet := flag.NewFlagSet("ignitedb", flag.ContinueOnError)
	flagSet.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flagSet.PrintDefaults()
	}

	sidecar := flagSet.Bool("sidecar", false, "use the sidecar index storage layout instead of embedded")
	maxRecordSize := flagSet.Uint64("max-record-size", options.DefaultMaxRecordSize, "maximum record size in bytes")
	recoverTail := flagSet.Bool("recover-truncated-tail", false, "quarantine and discard a torn tail record on load")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	positional := flagSet.Args()
	if len(positional) < 3 {
		flagSet.Usage()
		return 2
	}

	file := positional[0]
	op := positional[1]
	key := positional[2]
	var value []byte
	if len(positional) > 3 {
		value = []byte(positional[3])
	}

	if (op == "insert" || op == "update") && len(positional) < 4 {
		fmt.Fprintf(os.Stderr, "%s requires a VALUE\n", op)
		return 2
	}

	optFns := []options.OptionFunc{
		options.WithDataDir(filepath.Dir(file)),
		options.WithDataFileName(filepath.Base(file)),
		options.WithMaxRecordSize(*maxRecordSize),
		options.WithRecoverTruncatedTail(*recoverTail),
	}
	if *sidecar {
		optFns = append(optFns, options.WithLayout(options.LayoutSidecar))
	}

	ctx := context.Background()
	db, err := ignitedb.Open(ctx, "ignitedb-cli", optFns...)
	if err != nil {
		return fail(err)
	}
	defer db.Close(ctx)

	if err := db.Load(ctx); err != nil {
		return fail(err)
	}

	switch op {
	case "get":
		v, ok, err := db.Get(ctx, key)
		return report(v, ok, err)
	case "find":
		offset, v, ok, err := db.Find(ctx, key)
		if err != nil {
			return fail(err)
		}
		if !ok {
			fmt.Println("(not found)")
			return 0
		}
		fmt.Printf("offset=%d value=%s\n", offset, v)
		return 0
	case "insert":
		if err := db.Insert(ctx, key, value); err != nil {
			return fail(err)
		}
		return 0
	case "update":
		if err := db.Update(ctx, key, value); err != nil {
			return fail(err)
		}
		return 0
	case "delete":
		if err := db.Delete(ctx, key); err != nil {
			return fail(err)
		}
		return 0
	default:
		fmt.Fprintf(os.Stderr, "unknown op %q\n", op)
		return 2
	}
}

func report(value []byte, ok bool, err error) int {
	if err != nil {
		return fail(err)
	}
	if !ok {
		fmt.Println("(not found)")
		return 0
	}
	fmt.Println(string(value))
	return 0
}

// fail prints the error with its code so operators can tell an integrity
// failure apart from a plain I/O problem without reading the message.
func fail(err error) int {
	fmt.Fprintf(os.Stderr, "%s (%s)\n", err, errors.GetErrorCode(err))
	return 1
}
