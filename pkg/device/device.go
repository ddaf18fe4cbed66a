package device

import (
	"fmt"
	"gopkg.in/ini.v1"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"
)

const (
	PropSerial       = "ro.serialno"
	PropBrand        = "ro.product.brand"
	PropModel        = "ro.product.model"
	PropManufacturer = "ro.product.manufacturer"
	PropDevice       = "ro.product.device"
	PropSdkVersion   = "ro.build.version.sdk"

	FeatureTelephony = "android.hardware.telephony"

	propsSection    = "props"
	featuresSection = "features"
)

// Shell runs a command on the device and returns its output
type Shell interface {
	RunCommand(cmd string, args ...string) (string, error)
}

// Info holds the system properties and the system features of a device
type Info struct {
	props    map[string][]string
	features map[string]bool
}

func NewInfo(props map[string][]string, features []string) *Info {
	info := &Info{
		props:    props,
		features: map[string]bool{},
	}
	if info.props == nil {
		info.props = map[string][]string{}
	}
	for _, feature := range features {
		info.features[feature] = true
	}
	return info
}

/*
Load reads the properties ("getprop") and the features ("pm list features") of the device
*/
func Load(shell Shell) (*Info, error) {
	rawProps, err := shell.RunCommand("getprop")
	if err != nil {
		return nil, fmt.Errorf("getprop: %w", err)
	}

	rawFeatures, err := shell.RunCommand("pm", "list", "features")
	if err != nil {
		return nil, fmt.Errorf("pm list features: %w", err)
	}

	return NewInfo(ParseGetPropOutput(rawProps), ParseFeatures(rawFeatures)), nil
}

func LoadFromIniData(data []byte) (*Info, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, data)
	if err != nil {
		return nil, err
	}

	if !cfg.HasSection(propsSection) {
		return nil, fmt.Errorf("ini file does not have a [%s] section", propsSection)
	}

	props := map[string][]string{}
	for _, key := range cfg.Section(propsSection).Keys() {
		props[key.Name()] = strings.Split(key.Value(), ",")
	}

	var features []string
	for _, key := range cfg.Section(featuresSection).Keys() {
		if key.MustBool(false) {
			features = append(features, key.Name())
		}
	}
	return NewInfo(props, features), nil
}

func LoadFromFile(filepath string) (*Info, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}
	return LoadFromIniData(data)
}

func (info *Info) SaveToFile(filepath string) error {
	cfg := ini.Empty()

	props := cfg.Section(propsSection)
	for _, key := range sortedKeys(info.props) {
		if _, err := props.NewKey(key, strings.Join(info.props[key], ",")); err != nil {
			return err
		}
	}

	features := cfg.Section(featuresSection)
	for _, feature := range info.Features() {
		if _, err := features.NewKey(feature, "true"); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(path.Dir(filepath), os.ModePerm); err != nil {
		return err
	}
	return cfg.SaveTo(filepath)
}

func (info *Info) GetStringPropValue(key string, defaultValue string) string {
	values := info.props[key]
	if len(values) == 0 {
		return defaultValue
	}
	return values[0]
}

func (info *Info) GetIntPropValue(key string, defaultValue int) int {
	values := info.props[key]
	if len(values) == 0 {
		return defaultValue
	}

	value, err := strconv.Atoi(values[0])
	if err != nil {
		return defaultValue
	}
	return value
}

func (info *Info) Serial() string {
	return info.GetStringPropValue(PropSerial, "unknown")
}

func (info *Info) Brand() string {
	return info.GetStringPropValue(PropBrand, "unknown")
}

func (info *Info) Model() string {
	return info.GetStringPropValue(PropModel, "unknown")
}

func (info *Info) Manufacturer() string {
	return info.GetStringPropValue(PropManufacturer, "unknown")
}

func (info *Info) DeviceName() string {
	return info.GetStringPropValue(PropDevice, "unknown")
}

func (info *Info) SdkVer() int {
	return info.GetIntPropValue(PropSdkVersion, 0)
}

func (info *Info) HasFeature(feature string) bool {
	return info.features[feature]
}

func (info *Info) HasTelephony() bool {
	return info.HasFeature(FeatureTelephony)
}

func (info *Info) Features() []string {
	return sortedKeys(info.features)
}

func makeStringFilenameFriendly(val string) string {
	return strings.ReplaceAll(strings.ToLower(val), " ", "_")
}

func (info *Info) PreferredFilename() string {
	return fmt.Sprintf("%s_%s_sdk_%d.ini",
		makeStringFilenameFriendly(info.Manufacturer()), makeStringFilenameFriendly(info.DeviceName()),
		info.SdkVer())
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
