package prayer

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// HighLatitudeRule decides Fajr and Isha when twilight never ends or
// outlasts a safe share of the night.
type HighLatitudeRule string

const (
	MiddleOfTheNight  HighLatitudeRule = "middle_of_the_night"
	SeventhOfTheNight HighLatitudeRule = "seventh_of_the_night"
	TwilightAngle     HighLatitudeRule = "twilight_angle"
)

// nightPortion is the share of the night that Fajr may precede sunrise, or
// Isha may follow sunset, for a twilight angle in degrees.
func (r HighLatitudeRule) nightPortion(angle float64) float64 {
	switch r {
	case SeventhOfTheNight:
		return 1.0 / 7
	case TwilightAngle:
		return angle / 60
	default:
		return 0.5
	}
}

func (r HighLatitudeRule) valid() bool {
	switch r {
	case MiddleOfTheNight, SeventhOfTheNight, TwilightAngle:
		return true
	}
	return false
}

type Rounding string

const (
	RoundNearest Rounding = "nearest"
	RoundUp      Rounding = "up"
	RoundNone    Rounding = "none"
)

func (r Rounding) apply(t time.Time) time.Time {
	switch r {
	case RoundNearest:
		return t.Round(time.Minute)
	case RoundUp:
		down := t.Truncate(time.Minute)
		if down.Before(t) {
			return down.Add(time.Minute)
		}
		return down
	default:
		return t
	}
}

func (r Rounding) valid() bool {
	switch r {
	case RoundNearest, RoundUp, RoundNone:
		return true
	}
	return false
}

// Adjustments are fixed minute offsets applied after the astronomical solve.
// The Maghrib adjustment is the gap between sunset and Maghrib.
type Adjustments struct {
	Fajr    int `json:"fajr" yaml:"fajr"`
	Sunrise int `json:"sunrise" yaml:"sunrise"`
	Dhuhr   int `json:"dhuhr" yaml:"dhuhr"`
	Asr     int `json:"asr" yaml:"asr"`
	Maghrib int `json:"maghrib" yaml:"maghrib"`
	Isha    int `json:"isha" yaml:"isha"`
}

// Method is a named calculation convention. When IshaInterval is set Isha
// is that many minutes after sunset and IshaAngle is ignored.
type Method struct {
	Name             string           `json:"name" yaml:"name"`
	FajrAngle        float64          `json:"fajr_angle" yaml:"fajr_angle"`
	IshaAngle        float64          `json:"isha_angle,omitempty" yaml:"isha_angle"`
	IshaInterval     int              `json:"isha_interval,omitempty" yaml:"isha_interval"`
	AsrShadowFactor  float64          `json:"asr_shadow_factor" yaml:"asr_shadow_factor"`
	HighLatitudeRule HighLatitudeRule `json:"high_latitude_rule" yaml:"high_latitude_rule"`
	Rounding         Rounding         `json:"rounding" yaml:"rounding"`
	Adjustments      Adjustments      `json:"adjustments" yaml:"adjustments"`
}

func (m Method) usesIshaInterval() bool {
	return m.IshaInterval > 0
}

func (m Method) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("method has no name")
	}
	if m.FajrAngle <= 0 || m.FajrAngle >= 90 {
		return fmt.Errorf("method %s: fajr angle %v out of range (0, 90)", m.Name, m.FajrAngle)
	}
	if !m.usesIshaInterval() && (m.IshaAngle <= 0 || m.IshaAngle >= 90) {
		return fmt.Errorf("method %s: needs an isha angle in (0, 90) or a positive isha interval", m.Name)
	}
	if m.AsrShadowFactor != 1 && m.AsrShadowFactor != 2 {
		return fmt.Errorf("method %s: asr shadow factor must be 1 or 2, got %v", m.Name, m.AsrShadowFactor)
	}
	if !m.HighLatitudeRule.valid() {
		return fmt.Errorf("method %s: unknown high latitude rule %q", m.Name, m.HighLatitudeRule)
	}
	if !m.Rounding.valid() {
		return fmt.Errorf("method %s: unknown rounding %q", m.Name, m.Rounding)
	}
	return nil
}

func preset(name string, fajr, isha float64, interval int, adj Adjustments) Method {
	return Method{
		Name:             name,
		FajrAngle:        fajr,
		IshaAngle:        isha,
		IshaInterval:     interval,
		AsrShadowFactor:  1,
		HighLatitudeRule: MiddleOfTheNight,
		Rounding:         RoundNearest,
		Adjustments:      adj,
	}
}

var (
	registryMu sync.RWMutex
	registry   = builtinMethods()
)

func builtinMethods() map[string]Method {
	singapore := preset("Singapore", 20, 18, 0, Adjustments{Dhuhr: 1})
	singapore.Rounding = RoundUp

	kemenag := preset("Kemenag", 20, 18, 0, Adjustments{Fajr: 2, Sunrise: -2, Dhuhr: 2, Asr: 2, Maghrib: 2, Isha: 2})
	kemenag.Rounding = RoundUp

	methods := []Method{
		preset("MuslimWorldLeague", 18, 17, 0, Adjustments{Dhuhr: 1}),
		preset("Egyptian", 19.5, 17.5, 0, Adjustments{Dhuhr: 1}),
		preset("Karachi", 18, 18, 0, Adjustments{Dhuhr: 1}),
		preset("UmmAlQura", 18.5, 0, 90, Adjustments{}),
		preset("Dubai", 18.2, 18.2, 0, Adjustments{Sunrise: -3, Dhuhr: 3, Asr: 3, Maghrib: 3}),
		preset("Qatar", 18, 0, 90, Adjustments{}),
		preset("Kuwait", 18, 17.5, 0, Adjustments{}),
		preset("NorthAmerica", 15, 15, 0, Adjustments{Dhuhr: 1}),
		preset("Turkey", 18, 17, 0, Adjustments{Sunrise: -7, Dhuhr: 5, Asr: 4, Maghrib: 7}),
		singapore,
		kemenag,
	}

	out := make(map[string]Method, len(methods))
	for _, m := range methods {
		out[m.Name] = m
	}
	return out
}

// LookupMethod returns the registered method with the exact given name.
func LookupMethod(name string) (Method, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	m, ok := registry[name]
	if !ok {
		return Method{}, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
	}
	return m, nil
}

// MethodNames lists registered method names in sorted order.
func MethodNames() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RegisterMethod adds or replaces a method. Intended for start-up only.
func RegisterMethod(m Method) error {
	if err := m.Validate(); err != nil {
		return err
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[m.Name] = m
	return nil
}
