package config

import (
	"fmt"
	"strings"

	"github.com/racemop/racemop/internal/monitor"
)

// valueFlags lists racemop's own flags that consume a following argument.
var valueFlags = []string{
	"-spec-folder", "-specs", "-algorithm", "-strategy", "-statistics-file",
}

// ParseArgs parses racemop's own flags out of args, starting from
// Default(), and returns the resulting Config. Unrecognized flags (and
// any value they consume, per needsValue) are collected into
// ForwardedArgs; non-flag arguments are collected into Sources — the same
// split buildConfig makes between buildFlags and sourceFiles.
func ParseArgs(args []string) (*Config, error) {
	cfg := Default()
	ApplyEnv(cfg)

	expectingValue := false
	var pendingOwnFlag string

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if expectingValue {
			if err := applyOwnFlag(cfg, pendingOwnFlag, arg); err != nil {
				return nil, err
			}
			expectingValue = false
			continue
		}

		if name, value, ok := splitEquals(arg); ok && isOwnFlag(name) {
			if err := applyOwnFlag(cfg, name, value); err != nil {
				return nil, err
			}
			continue
		}

		if isOwnBoolFlag(arg) {
			applyOwnBoolFlag(cfg, arg)
			continue
		}

		if isOwnValueFlag(arg) {
			if i+1 >= len(args) {
				return nil, fmt.Errorf("config: %s flag requires an argument", arg)
			}
			pendingOwnFlag = arg
			expectingValue = true
			continue
		}

		if strings.HasPrefix(arg, "-") {
			cfg.ForwardedArgs = append(cfg.ForwardedArgs, arg)
			if needsValue(arg) && i+1 < len(args) {
				i++
				cfg.ForwardedArgs = append(cfg.ForwardedArgs, args[i])
			}
			continue
		}

		cfg.Sources = append(cfg.Sources, arg)
	}

	if len(cfg.Sources) == 0 {
		cfg.Sources = []string{"."}
	}

	return cfg, nil
}

func splitEquals(arg string) (name, value string, ok bool) {
	idx := strings.IndexByte(arg, '=')
	if idx < 0 || !strings.HasPrefix(arg, "-") {
		return "", "", false
	}
	return arg[:idx], arg[idx+1:], true
}

func isOwnValueFlag(arg string) bool {
	for _, f := range valueFlags {
		if arg == f {
			return true
		}
	}
	return false
}

func isOwnFlag(name string) bool {
	if isOwnValueFlag(name) {
		return true
	}
	switch name {
	case "-instrument-site-packages", "-instrument-stdlib", "-instrument-test-files",
		"-instrument-self", "-no-gc", "-no-print-violations", "-no-print", "-debug",
		"-detailed", "-statistics", "-spec-info", "-convert-specs":
		return true
	}
	return false
}

func isOwnBoolFlag(arg string) bool {
	return isOwnFlag(arg) && !isOwnValueFlag(arg)
}

func applyOwnBoolFlag(cfg *Config, arg string) {
	switch arg {
	case "-instrument-site-packages":
		cfg.InstrumentSitePackages = true
	case "-instrument-stdlib":
		cfg.InstrumentStdlib = true
	case "-instrument-test-files":
		cfg.InstrumentTestFiles = true
	case "-instrument-self":
		cfg.InstrumentSelf = true
	case "-no-gc":
		cfg.GarbageCollection = false
	case "-no-print-violations":
		cfg.PrintViolationsToConsole = false
	case "-no-print":
		cfg.NoPrint = true
	case "-debug":
		cfg.DebugMessages = true
	case "-detailed":
		cfg.DetailedMessages = true
	case "-statistics":
		cfg.Statistics = true
	case "-spec-info":
		cfg.SpecInfo = true
	case "-convert-specs":
		cfg.ConvertSpecs = true
	}
}

func applyOwnFlag(cfg *Config, name, value string) error {
	switch name {
	case "-spec-folder":
		cfg.SpecFolder = value
	case "-specs":
		cfg.ActiveSpecs = splitCommaList(value)
	case "-algorithm":
		algo, err := parseAlgorithm(value)
		if err != nil {
			return err
		}
		cfg.Algorithm = algo
	case "-strategy":
		if value != "ast" && value != "builtin" {
			return fmt.Errorf("config: unknown -strategy %q (want ast or builtin)", value)
		}
		cfg.InstrumentationStrategy = value
	case "-statistics-file":
		cfg.StatisticsFile = value
	default:
		return fmt.Errorf("config: unknown flag %q", name)
	}
	return nil
}

func splitCommaList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseAlgorithm(value string) (monitor.Algorithm, error) {
	switch strings.ToUpper(value) {
	case "A":
		return monitor.AlgorithmA, nil
	case "B":
		return monitor.AlgorithmB, nil
	case "C":
		return monitor.AlgorithmC, nil
	case "C+", "CPLUS":
		return monitor.AlgorithmCPlus, nil
	case "D":
		return monitor.AlgorithmD, nil
	default:
		return "", fmt.Errorf("config: unknown -algorithm %q (want A, B, C, C+, or D)", value)
	}
}

// needsValue reports whether a forwarded (not racemop's own) flag expects
// a following value, so `go build`-style flags like -ldflags still
// consume their argument correctly when passed through.
func needsValue(flag string) bool {
	valueFlags := []string{
		"-ldflags", "-gcflags", "-asmflags", "-gccgoflags",
		"-tags", "-installsuffix", "-buildmode", "-mod",
		"-modfile", "-overlay", "-pkgdir", "-toolexec",
	}
	for _, vf := range valueFlags {
		if strings.HasPrefix(flag, vf+"=") {
			return false
		}
		if flag == vf {
			return true
		}
	}
	return false
}
