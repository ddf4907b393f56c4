package tmpl

import (
	"bytes"
	_ "embed"
	"fmt"
	"go/format"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"
	"unicode"

	"github.com/klauspost/compress/gzip"
	"github.com/saylorsolutions/xorcryptor/pkg/xrc"
)

const (
	idealMinKeyLen = 20
	maxKeyLen      = 256
)

var (
	//go:embed screen_embed.go.tmpl
	tmplText     string
	tmplTemplate = template.Must(template.New("template").Parse(tmplText))
)

type Params struct {
	Package        string
	Exposed        bool
	Compressed     bool
	FileMethodName string
	SourceName     string
	KeyString      string
	DataString     string

	keyData        []byte
	fileData       []byte
	screened       []byte
	targetFileName string
	outputDir      string
}

// ParamOpt operates on Params in a standard and predictable way, and is used in GenerateFile.
// If any ParamOpt returns an error, then file generation ceases and the error is returned.
type ParamOpt = func(params *Params) error

// CompressData indicates that data should be compressed.
func CompressData(val ...bool) ParamOpt {
	return func(params *Params) error {
		if len(val) > 0 {
			params.Compressed = val[0]
			return nil
		}
		params.Compressed = true
		return nil
	}
}

// ExposeFunctions indicates that generated functions should be exposed.
func ExposeFunctions(val ...bool) ParamOpt {
	return func(params *Params) error {
		if len(val) > 0 {
			params.Exposed = val[0]
			return nil
		}
		params.Exposed = true
		return nil
	}
}

// UseKey sets a key to be used instead of generating one randomly.
func UseKey(key []byte) ParamOpt {
	return func(params *Params) error {
		if _, err := xrc.NewCipher(key, xrc.WithMinKeyLen(1)); err != nil {
			return err
		}
		params.keyData = key
		return nil
	}
}

// RandomKey generates a random key based on the payload size.
func RandomKey() ParamOpt {
	return randomKey
}

// PackageName specifies the package name of the generated file.
// This is useful for cases where the expected package name doesn't match the name of the containing directory.
func PackageName(name string) ParamOpt {
	name = strings.TrimSpace(name)
	return func(params *Params) error {
		if len(name) == 0 {
			return nil
		}
		params.Package = name
		return nil
	}
}

// OutputDir sets the directory that the generated file is written to, instead of the working directory.
func OutputDir(dir string) ParamOpt {
	return func(params *Params) error {
		params.outputDir = dir
		return nil
	}
}

// GenerateFile will generate a file embedding the input file with the xrc transform, and returns the path of the new file.
// Various generation options may be passed as zero or more ParamOpt.
func GenerateFile(input string, opts ...ParamOpt) (string, error) {
	params := new(Params)
	if err := populateContextData(params); err != nil {
		return "", err
	}
	if err := populateFileData(params, input); err != nil {
		return "", err
	}

	for _, opt := range opts {
		if err := opt(params); err != nil {
			return "", err
		}
	}

	if len(params.keyData) == 0 {
		if err := randomKey(params); err != nil {
			return "", err
		}
	}
	if err := screenData(params); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmplTemplate.Execute(&buf, params); err != nil {
		return "", err
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return "", fmt.Errorf("generated invalid source: %w", err)
	}
	target := filepath.Join(params.outputDir, params.targetFileName+".go")
	if err := os.WriteFile(target, src, 0644); err != nil {
		return "", err
	}
	return target, nil
}

func populateContextData(params *Params) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	params.Package = filepath.Base(cwd)
	return nil
}

var (
	fileCleansePattern = regexp.MustCompile(`[^a-zA-Z0-9_]`)
)

func populateFileData(params *Params, file string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		return err
	}
	params.fileData = data
	_, fname := filepath.Split(file)
	params.SourceName = fname
	params.FileMethodName = fileCleansePattern.ReplaceAllString(unicap(fname), "_")
	params.targetFileName = fileCleansePattern.ReplaceAllString(fname, "_")
	return nil
}

func randomKey(params *Params) error {
	var (
		length = len(params.fileData)
		keyLen int
	)
	switch {
	case length > 3*idealMinKeyLen:
		keyLen = length / 3
	case length > 2*idealMinKeyLen:
		keyLen = length / 2
	default:
		keyLen = idealMinKeyLen
	}
	key, err := xrc.GenKey(min(keyLen, maxKeyLen))
	if err != nil {
		return err
	}
	params.keyData = key
	return nil
}

func screenData(params *Params) error {
	data := params.fileData
	if params.Compressed {
		var buf bytes.Buffer
		w, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		if err != nil {
			return err
		}
		if err := w.Close(); err != nil {
			return err
		}
		data = buf.Bytes()
	}

	params.screened = xrc.Encode(data, xrc.DeriveKeystream(params.keyData), xrc.EncodeTable())
	params.KeyString = fmt.Sprintf("%#v", params.keyData)
	params.DataString = fmt.Sprintf("%#v", params.screened)
	return nil
}

func unicap(s string) string {
	runes := []rune(s)
	switch len(runes) {
	case 0:
		return ""
	case 1:
		return string(unicode.ToUpper(runes[0]))
	default:
		return string(append([]rune{unicode.ToUpper(runes[0])}, runes[1:]...))
	}
}
