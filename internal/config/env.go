package config

import (
	"os"
	"strconv"
	"strings"
)

// ApplyEnv overlays RACEMOP_* environment variables onto cfg.
// ParseArgs calls this immediately after Default(), before parsing flags,
// so an explicit flag always wins over its environment-variable
// equivalent, and an environment variable always wins over the bare
// default — the conventional precedence order for a CLI tool.
func ApplyEnv(cfg *Config) {
	if v, ok := os.LookupEnv("RACEMOP_SPEC_FOLDER"); ok {
		cfg.SpecFolder = v
	}
	if v, ok := os.LookupEnv("RACEMOP_SPECS"); ok {
		cfg.ActiveSpecs = splitCommaList(v)
	}
	if v, ok := os.LookupEnv("RACEMOP_ALGORITHM"); ok {
		if algo, err := parseAlgorithm(v); err == nil {
			cfg.Algorithm = algo
		}
	}
	if v, ok := os.LookupEnv("RACEMOP_STRATEGY"); ok && (v == "ast" || v == "builtin") {
		cfg.InstrumentationStrategy = v
	}
	applyEnvBool("RACEMOP_INSTRUMENT_SITE_PACKAGES", &cfg.InstrumentSitePackages)
	applyEnvBool("RACEMOP_INSTRUMENT_STDLIB", &cfg.InstrumentStdlib)
	applyEnvBool("RACEMOP_INSTRUMENT_TEST_FILES", &cfg.InstrumentTestFiles)
	applyEnvBool("RACEMOP_INSTRUMENT_SELF", &cfg.InstrumentSelf)
	applyEnvBool("RACEMOP_GC", &cfg.GarbageCollection)
	applyEnvBool("RACEMOP_PRINT_VIOLATIONS", &cfg.PrintViolationsToConsole)
	applyEnvBool("RACEMOP_NO_PRINT", &cfg.NoPrint)
	applyEnvBool("RACEMOP_DEBUG", &cfg.DebugMessages)
	applyEnvBool("RACEMOP_DETAILED", &cfg.DetailedMessages)
	applyEnvBool("RACEMOP_STATISTICS", &cfg.Statistics)
	applyEnvBool("RACEMOP_SPEC_INFO", &cfg.SpecInfo)
	applyEnvBool("RACEMOP_CONVERT_SPECS", &cfg.ConvertSpecs)
	if v, ok := os.LookupEnv("RACEMOP_STATISTICS_FILE"); ok {
		cfg.StatisticsFile = v
	}
}

// ToEnv renders cfg as RACEMOP_* environment variable assignments
// ("KEY=value" pairs suitable for appending to exec.Cmd.Env), the
// reverse of ApplyEnv. cmd/racemop runs in its own process and the
// instrumented binary it builds/runs/tests runs in another; since a
// compiled Go binary has no access to the flags its builder parsed,
// this is how a flag given to `racemop build -specs Foo ./app` still
// reaches internal/bootstrap.Start inside the resulting binary.
func (c *Config) ToEnv() []string {
	boolStr := func(b bool) string {
		if b {
			return "true"
		}
		return "false"
	}
	env := []string{
		"RACEMOP_SPEC_FOLDER=" + c.SpecFolder,
		"RACEMOP_ALGORITHM=" + string(c.Algorithm),
		"RACEMOP_STRATEGY=" + c.InstrumentationStrategy,
		"RACEMOP_INSTRUMENT_SITE_PACKAGES=" + boolStr(c.InstrumentSitePackages),
		"RACEMOP_INSTRUMENT_STDLIB=" + boolStr(c.InstrumentStdlib),
		"RACEMOP_INSTRUMENT_TEST_FILES=" + boolStr(c.InstrumentTestFiles),
		"RACEMOP_INSTRUMENT_SELF=" + boolStr(c.InstrumentSelf),
		"RACEMOP_GC=" + boolStr(c.GarbageCollection),
		"RACEMOP_PRINT_VIOLATIONS=" + boolStr(c.PrintViolationsToConsole),
		"RACEMOP_NO_PRINT=" + boolStr(c.NoPrint),
		"RACEMOP_DEBUG=" + boolStr(c.DebugMessages),
		"RACEMOP_DETAILED=" + boolStr(c.DetailedMessages),
		"RACEMOP_STATISTICS=" + boolStr(c.Statistics),
		"RACEMOP_SPEC_INFO=" + boolStr(c.SpecInfo),
		"RACEMOP_CONVERT_SPECS=" + boolStr(c.ConvertSpecs),
		"RACEMOP_STATISTICS_FILE=" + c.StatisticsFile,
	}
	if len(c.ActiveSpecs) > 0 {
		env = append(env, "RACEMOP_SPECS="+strings.Join(c.ActiveSpecs, ","))
	}
	return env
}

func applyEnvBool(name string, dst *bool) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return
	}
	*dst = b
}
