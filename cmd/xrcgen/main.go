package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/saylorsolutions/xorcryptor/cmd/internal"
	"github.com/saylorsolutions/xorcryptor/cmd/xrcgen/internal/tmpl"
	flag "github.com/spf13/pflag"
)

var version = "dev"

func main() {
	var (
		helpFlag     bool
		exposedFlag  bool
		compressFlag bool
		packageFlag  string
	)
	flags := flag.NewFlagSet("xrcgen", flag.ContinueOnError)
	flags.BoolVarP(&helpFlag, "help", "h", false, "Prints this usage information.")
	flags.BoolVarP(&exposedFlag, "exposed", "E", false, "Make the unscreen function exposed from the file. It's recommended to only expose from within an internal package.")
	flags.BoolVarP(&compressFlag, "compressed", "c", false, "Payload should be gzip compressed when embedded, which includes a checksum to help prevent tampering.")
	flags.StringVarP(&packageFlag, "package", "p", "", "Sets the package name of the generated file, which defaults to the name of the current directory.")
	flags.Usage = func() {
		fmt.Printf(`
xrcgen %s
xrcgen generates code to embed xrc obfuscated (and optionally compressed) data by generating a *.go file based on the input file. This pairs well with go:generate comments.
The name of the generated Go file will be based on the name of the input file, replacing characters that match the regex pattern [^a-zA-Z0-9_] with "_".
For example, given a file called super-secret.txt, a Go file will be created in the current directory called super_secret_txt.go, containing a function called unscreenSuper_secret_txt.
See the -E flag below to make it an exposed function, and make sure you review the SECURITY notes below if you're unfamiliar with obfuscation.

USAGE:  xrcgen FILE [KEY]

ARGS:
    FILE is the input file to be embedded.
    KEY is optional and may be specified as a hex string to override secure random generation behavior.

FLAGS:
%s
SECURITY:
    This is not encryption, this is obfuscation, and they are very different things!
The xrc transform is intended to hide embedded data from passive binary analysis only, since it's easily reversible.
This isn't really important to the threat model of this obfuscation method, since the plain text key is stored right next to the screened data.
`, version, flags.FlagUsages())
	}
	if len(os.Args) == 1 {
		flags.Usage()
		return
	}
	if err := flags.Parse(os.Args[1:]); err != nil {
		flags.Usage()
		internal.Fatal("Error parsing flags: %v", err)
	}
	if helpFlag {
		flags.Usage()
		return
	}

	opts := []tmpl.ParamOpt{
		tmpl.CompressData(compressFlag),
		tmpl.ExposeFunctions(exposedFlag),
		tmpl.PackageName(packageFlag),
	}
	switch flags.NArg() {
	case 0:
		internal.Fatal("Missing required FILE argument")
	case 1:
		opts = append(opts, tmpl.RandomKey())
	default:
		key, err := hex.DecodeString(flags.Arg(1))
		if err != nil {
			internal.Fatal("Failed to decode KEY, must be a hex string with only the characters a-f, A-F, or 0-9")
		}
		opts = append(opts, tmpl.UseKey(key))
	}
	target, err := tmpl.GenerateFile(flags.Arg(0), opts...)
	if err != nil {
		internal.Fatal("Failed to generate file: %v", err)
	}
	internal.Echo("Generated %s", target)
}
