package hwmon

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/md14454/gosensors"
	"github.com/spf13/afero"
	"github.com/tuf2go/tuf2go/internal/util"
)

const (
	BusTypeIsa  = 1
	BusTypePci  = 2
	BusTypeAcpi = 5
)

var platformRegex = regexp.MustCompile(`/platform/([^/]+)/`)

// Input is a single fan or temperature input of a chip
type Input struct {
	Label string
	Index int
	Input string
	Value float64
	Max   int
	Min   int
}

type Chip struct {
	Name     string
	DType    string
	Modalias string
	Platform string
	Path     string

	Fans  []Input
	Temps []Input
	// Pwms lists the writable pwm outputs of the chip
	Pwms []string
}

// IsAsusWmi is true for the hwmon device of the asus-nb-wmi platform driver
func (c Chip) IsAsusWmi() bool {
	return strings.HasPrefix(c.Platform, "asus") || strings.HasPrefix(c.Name, "asus")
}

// GetChips lists all chips known to libsensors that expose a fan or a temperature input
func GetChips(fs afero.Fs) []*Chip {
	gosensors.Init()
	defer gosensors.Cleanup()
	detected := gosensors.GetDetectedChips()

	var list []*Chip
	for _, chip := range detected {
		fans := getInputs(fs, chip, isFan, gosensors.SubFeatureTypeFanInput, gosensors.SubFeatureTypeFanMax, gosensors.SubFeatureTypeFanMin)
		temps := getInputs(fs, chip, isTemp, gosensors.SubFeatureTypeTempInput, gosensors.SubFeatureTypeTempMax, gosensors.SubFeatureTypeTempMin)
		if len(fans) <= 0 && len(temps) <= 0 {
			continue
		}

		list = append(list, newChip(fs, computeIdentifier(fs, chip), chip.Path, fans, temps))
	}

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Path < list[j].Path
	})
	return list
}

func newChip(fs afero.Fs, name string, path string, fans []Input, temps []Input) *Chip {
	platform := findPlatform(resolveDevicePath(path))
	if len(platform) <= 0 {
		platform = name
	}
	return &Chip{
		Name:     name,
		DType:    readTrimmed(fs, filepath.Join(path, "device", "type")),
		Modalias: readTrimmed(fs, filepath.Join(path, "device", "modalias")),
		Platform: platform,
		Path:     path,
		Fans:     fans,
		Temps:    temps,
		Pwms:     findPwmOutputs(fs, path),
	}
}

func isFan(feature gosensors.Feature) bool {
	return feature.Type == gosensors.FeatureTypeFan
}

func isTemp(feature gosensors.Feature) bool {
	return feature.Type == gosensors.FeatureTypeTemp
}

func getInputs(fs afero.Fs, chip gosensors.Chip, matches func(feature gosensors.Feature) bool, inputType gosensors.SubFeatureType, maxType gosensors.SubFeatureType, minType gosensors.SubFeatureType) []Input {
	var inputs []Input

	for _, feature := range chip.GetFeatures() {
		if !matches(feature) {
			continue
		}

		subfeatures := feature.GetSubFeatures()
		inputSubFeature, ok := getSubFeature(subfeatures, inputType)
		if !ok {
			continue
		}

		input := Input{
			Label: getLabel(fs, chip.Path, inputSubFeature.Name),
			Index: len(inputs) + 1,
			Input: filepath.Join(chip.Path, inputSubFeature.Name),
			Value: inputSubFeature.GetValue(),
			Max:   -1,
			Min:   -1,
		}
		if maxSubFeature, ok := getSubFeature(subfeatures, maxType); ok {
			input.Max = int(maxSubFeature.GetValue())
		}
		if minSubFeature, ok := getSubFeature(subfeatures, minType); ok {
			input.Min = int(minSubFeature.GetValue())
		}
		inputs = append(inputs, input)
	}

	return inputs
}

func getSubFeature(subfeatures []gosensors.SubFeature, subFeatureType gosensors.SubFeatureType) (gosensors.SubFeature, bool) {
	for _, a := range subfeatures {
		if a.Type == subFeatureType {
			return a, true
		}
	}
	return gosensors.SubFeature{}, false
}

// getLabel read the label of a in/output of a device
func getLabel(fs afero.Fs, devicePath string, input string) string {
	labelPath := strings.TrimSuffix(filepath.Join(devicePath, input), "input") + "label"

	label := readTrimmed(fs, labelPath)
	if len(label) <= 0 {
		_, label = filepath.Split(devicePath)
	}
	return label
}

func computeIdentifier(fs afero.Fs, chip gosensors.Chip) (name string) {
	name = chip.Prefix

	devicePath := chip.Path
	if len(name) <= 0 {
		name = readTrimmed(fs, filepath.Join(devicePath, "name"))
	}

	if len(name) <= 0 {
		_, name = filepath.Split(devicePath)
	}

	identifier := name
	switch chip.Bus.Type {
	case BusTypeIsa:
		identifier = fmt.Sprintf("%s-isa-%d%03x", identifier, chip.Bus.Nr, chip.Addr)
	case BusTypePci:
		identifier = fmt.Sprintf("%s-pci-%d%03x", identifier, chip.Bus.Nr, chip.Addr)
	case BusTypeAcpi:
		identifier = fmt.Sprintf("%s-acpi-%d", identifier, chip.Bus.Nr)
	}

	return identifier
}

// findPlatform returns the platform device a sysfs device path belongs to, if any
func findPlatform(devicePath string) string {
	match := platformRegex.FindStringSubmatch(devicePath)
	if len(match) < 2 {
		return ""
	}
	return match[1]
}

// resolveDevicePath follows the /sys/class/hwmon symlink to the device path on a real filesystem
func resolveDevicePath(path string) string {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return path
	}
	return resolved
}

func findPwmOutputs(fs afero.Fs, path string) []string {
	matches, err := afero.Glob(fs, filepath.Join(path, "pwm[1-9]"))
	if err != nil {
		return nil
	}
	sort.Strings(matches)
	return matches
}

func readTrimmed(fs afero.Fs, path string) string {
	value, err := util.ReadStringFromFile(fs, path)
	if err != nil {
		return ""
	}
	return value
}
