package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jward/resxsweep"
	"github.com/jward/resxsweep/internal/msbuild"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Configuration keys. Each is a persistent flag, a RESXSWEEP_* environment
// variable and a key in .resxsweep.yaml.
const (
	keyProject     = "project"
	keyResx        = "resx"
	keyExtensions  = "extensions"
	keyFormats     = "formats"
	keyExclude     = "exclude"
	keySkip        = "skip"
	keyMatch       = "match"
	keyProjectExts = "project-extensions"
)

// configFileName is looked for in the project root when --config is unset.
const configFileName = ".resxsweep.yaml"

// cfg holds the merged configuration after loadConfig.
var cfg *viper.Viper

func addScanFlags(pf *pflag.FlagSet) {
	pf.String(keyProject, "", "project root (default: nearest ancestor holding a project file)")
	pf.String(keyResx, "", "resource file (default: the only .resx in the project root or Properties/)")
	pf.String(keyExtensions, resxsweep.DefaultExtensions, "comma-separated source file extensions")
	pf.String(keyFormats, resxsweep.DefaultReferenceFormats, "comma-separated reference formats; % stands for the key")
	pf.String(keyExclude, "", "comma-separated key prefixes never reported")
	pf.String(keySkip, "**/bin,**/obj,**/.git,"+stateDir, "comma-separated path patterns not scanned (doublestar syntax)")
	pf.String(keyMatch, resxsweep.MatchSubstring.String(), "reference match mode: substring|word")
	pf.String(keyProjectExts, strings.Join(msbuild.DefaultExtensions, ","), "comma-separated project file extensions")
}

// loadConfig merges flags, environment and the config file into cfg.
// Precedence follows viper: flag, env, file, default.
func loadConfig(cmd *cobra.Command) error {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("RESXSWEEP")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for _, key := range []string{keyProject, keyResx, keyExtensions, keyFormats, keyExclude, keySkip, keyMatch, keyProjectExts} {
		if err := v.BindPFlag(key, cmd.Root().PersistentFlags().Lookup(key)); err != nil {
			return fmt.Errorf("binding --%s: %w", key, err)
		}
	}

	root, err := projectRoot(v)
	if err != nil {
		return err
	}

	path := flagConfig
	if path == "" {
		path = filepath.Join(root, configFileName)
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		// A missing default file is fine; an explicit --config must exist.
		if flagConfig != "" || !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("reading config %s: %w", path, err)
		}
	} else {
		logger.Debug("config loaded", "path", path)
	}

	cfg = v
	return nil
}

// projectRoot returns the absolute project root from --project or by
// searching upward from the working directory.
func projectRoot(v *viper.Viper) (string, error) {
	if p := v.GetString(keyProject); p != "" {
		abs, err := filepath.Abs(p)
		if err != nil {
			return "", fmt.Errorf("resolving path %q: %w", p, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return "", fmt.Errorf("directory not found: %s", abs)
		}
		if !info.IsDir() {
			return "", fmt.Errorf("not a directory: %s", abs)
		}
		return abs, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return findProjectRoot(wd, resxsweep.SplitList(v.GetString(keyProjectExts))), nil
}

// scanConfig builds the scan configuration from the merged settings.
func scanConfig() (resxsweep.ScanConfig, error) {
	root, err := projectRoot(cfg)
	if err != nil {
		return resxsweep.ScanConfig{}, err
	}
	manifest := cfg.GetString(keyResx)
	if manifest == "" {
		if manifest, err = discoverManifest(root); err != nil {
			return resxsweep.ScanConfig{}, err
		}
	} else if !filepath.IsAbs(manifest) {
		manifest = filepath.Join(root, manifest)
	}

	sc := resxsweep.ParseScanConfig(root, manifest,
		cfg.GetString(keyExtensions),
		cfg.GetString(keyFormats),
		cfg.GetString(keyExclude),
	)
	sc.SkipDirs = resxsweep.SplitList(cfg.GetString(keySkip))
	sc.ProjectExtensions = resxsweep.SplitList(cfg.GetString(keyProjectExts))
	if sc.Match, err = resxsweep.ParseMatchMode(cfg.GetString(keyMatch)); err != nil {
		return resxsweep.ScanConfig{}, err
	}
	sc = sc.Normalize()
	return sc, sc.Validate()
}

// discoverManifest returns the single .resx file in root or root/Properties.
func discoverManifest(root string) (string, error) {
	var found []string
	for _, dir := range []string{root, filepath.Join(root, "Properties")} {
		matches, err := filepath.Glob(filepath.Join(dir, "*.resx"))
		if err != nil {
			return "", err
		}
		found = append(found, matches...)
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("no .resx file found in %s; pass --%s", root, keyResx)
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("%d .resx files found in %s; pass --%s", len(found), root, keyResx)
	}
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or save the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSaveCmd = &cobra.Command{
	Use:   "save [path]",
	Short: "Write the effective configuration to a YAML file",
	Long:  "Writes the merged flag, environment and file settings to .resxsweep.yaml in the project root, or to path.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigSave,
}

func init() {
	configCmd.AddCommand(configSaveCmd)
}

// CLIConfig is the effective configuration as reported by `config`.
type CLIConfig struct {
	ProjectRoot       string   `json:"project_root"`
	Resx              string   `json:"resx"`
	Extensions        []string `json:"extensions"`
	Formats           []string `json:"formats"`
	Exclude           []string `json:"exclude"`
	Skip              []string `json:"skip"`
	Match             string   `json:"match"`
	ProjectExtensions []string `json:"project_extensions"`
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	sc, err := scanConfig()
	if err != nil {
		return outputError("config", err)
	}
	return outputResult(CLIResult{Command: "config", Results: toCLIConfig(sc)})
}

func runConfigSave(cmd *cobra.Command, args []string) error {
	sc, err := scanConfig()
	if err != nil {
		return outputError("config save", err)
	}
	path := filepath.Join(sc.ProjectRoot, configFileName)
	if len(args) > 0 {
		path = args[0]
	}

	// Persist list settings in the same comma-separated form the flags take.
	out := cfgForSave(sc)
	if err := out.WriteConfigAs(path); err != nil {
		return outputError("config save", fmt.Errorf("writing %s: %w", path, err))
	}
	return outputResult(CLIResult{Command: "config save", Results: map[string]string{"path": path}})
}

func cfgForSave(sc resxsweep.ScanConfig) *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.Set(keyResx, relTo(sc.ProjectRoot, sc.ManifestPath))
	v.Set(keyExtensions, strings.Join(sc.Extensions, ","))
	v.Set(keyFormats, strings.Join(sc.ReferenceFormats, ","))
	v.Set(keyExclude, strings.Join(sc.ExcludePrefixes, ","))
	v.Set(keySkip, strings.Join(sc.SkipDirs, ","))
	v.Set(keyMatch, sc.Match.String())
	v.Set(keyProjectExts, strings.Join(sc.ProjectExtensions, ","))
	return v
}

// relTo returns path relative to root when it lies inside root.
func relTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}

func toCLIConfig(sc resxsweep.ScanConfig) CLIConfig {
	return CLIConfig{
		ProjectRoot:       sc.ProjectRoot,
		Resx:              sc.ManifestPath,
		Extensions:        sc.Extensions,
		Formats:           sc.ReferenceFormats,
		Exclude:           sc.ExcludePrefixes,
		Skip:              sc.SkipDirs,
		Match:             sc.Match.String(),
		ProjectExtensions: sc.ProjectExtensions,
	}
}
