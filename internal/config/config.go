// Package config defines the data structures related to configuration and
// includes functions for loading the config and resolving its disposals.
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/iwvelando/cgt-calculator/internal/cgt"
	"github.com/iwvelando/cgt-calculator/pkg/constants"
	"github.com/iwvelando/cgt-calculator/pkg/datetime"
	"github.com/iwvelando/cgt-calculator/pkg/mathutil"
	"github.com/iwvelando/cgt-calculator/pkg/validation"
	"github.com/spf13/viper"
)

// DateLayout is the format expected in config files and is also the output
// date format.
const DateLayout = constants.DateLayout

// EnvPrefix prefixes environment variables that override config keys, e.g.
// CGT_LOGGING_LEVEL.
const EnvPrefix = "CGT"

// ErrDatesNotParsed is returned when a disposal is requested before its dates
// have been resolved with ParseDates.
var ErrDatesNotParsed = errors.New("dates have not been parsed")

// Configuration holds all configuration for cgt-calculator.
type Configuration struct {
	Logging   LoggingConfig `yaml:"logging,omitempty"`
	Output    OutputConfig  `yaml:"output,omitempty"`
	Defaults  Defaults      `yaml:"defaults,omitempty"`
	Scenarios []Scenario    `yaml:"scenarios,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json
}

// Defaults holds the values used for any disposal field left unset.
type Defaults struct {
	BuyPrice  float64 `yaml:"buyPrice"`
	SellPrice float64 `yaml:"sellPrice"`
	BuyDate   string  `yaml:"buyDate"`
	SellDate  string  `yaml:"sellDate,omitempty"` // empty means today

	buyDate  time.Time
	sellDate time.Time
	parsed   bool
}

// Scenario is one named disposal. Unset prices and dates inherit from
// Defaults.
type Scenario struct {
	Name      string   `yaml:"name"`
	Active    bool     `yaml:"active"`
	BuyPrice  *float64 `yaml:"buyPrice,omitempty"`
	BuyDate   string   `yaml:"buyDate,omitempty"`
	SellPrice *float64 `yaml:"sellPrice,omitempty"`
	SellDate  string   `yaml:"sellDate,omitempty"`

	buyDate  time.Time
	sellDate time.Time
	parsed   bool
}

// NewConfiguration returns a configuration holding only the built-in defaults.
func NewConfiguration() *Configuration {
	return &Configuration{
		Defaults: Defaults{
			BuyPrice:  constants.DefaultBuyPrice,
			SellPrice: constants.DefaultSellPrice,
			BuyDate:   constants.DefaultBuyDate,
		},
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("logging.level", "")
	v.SetDefault("logging.format", "")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", "")
	v.SetDefault("defaults.buyPrice", constants.DefaultBuyPrice)
	v.SetDefault("defaults.sellPrice", constants.DefaultSellPrice)
	v.SetDefault("defaults.buyDate", constants.DefaultBuyDate)
	v.SetDefault("defaults.sellDate", "")
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// ParseDates resolves every date in the configuration, using today for any
// unset sell date.
func (conf *Configuration) ParseDates() error {
	return conf.ParseDatesWithFixedTime(time.Now())
}

// ParseDatesWithFixedTime resolves every date in the configuration using a
// fixed "today", and fills scenario fields left unset from the defaults.
func (conf *Configuration) ParseDatesWithFixedTime(fixedTime time.Time) error {
	if err := conf.Defaults.parse(fixedTime); err != nil {
		return err
	}

	for i := range conf.Scenarios {
		if err := conf.Scenarios[i].resolve(conf.Defaults); err != nil {
			return err
		}
	}
	return nil
}

func (d *Defaults) parse(fixedTime time.Time) error {
	buyDate := d.BuyDate
	if strings.TrimSpace(buyDate) == "" {
		buyDate = constants.DefaultBuyDate
	}

	var err error
	d.buyDate, err = datetime.ParseDate(buyDate)
	if err != nil {
		return fmt.Errorf("defaults buyDate: %w", err)
	}
	d.sellDate, err = datetime.ParseDateOr(d.SellDate, fixedTime)
	if err != nil {
		return fmt.Errorf("defaults sellDate: %w", err)
	}
	d.parsed = true
	return nil
}

func (s *Scenario) resolve(defaults Defaults) error {
	if s.BuyPrice == nil {
		price := defaults.BuyPrice
		s.BuyPrice = &price
	}
	if s.SellPrice == nil {
		price := defaults.SellPrice
		s.SellPrice = &price
	}

	var err error
	s.buyDate, err = parseOr(s.BuyDate, defaults.buyDate)
	if err != nil {
		return fmt.Errorf("scenario %s buyDate: %w", s.Name, err)
	}
	s.sellDate, err = parseOr(s.SellDate, defaults.sellDate)
	if err != nil {
		return fmt.Errorf("scenario %s sellDate: %w", s.Name, err)
	}
	s.parsed = true
	return nil
}

func parseOr(date string, fallback time.Time) (time.Time, error) {
	if strings.TrimSpace(date) == "" {
		return fallback, nil
	}
	return datetime.ParseDate(date)
}

// Input converts the defaults into a disposal.
func (d Defaults) Input() (cgt.DisposalInput, error) {
	if !d.parsed {
		return cgt.DisposalInput{}, ErrDatesNotParsed
	}
	return buildInput(d.BuyPrice, d.buyDate, d.SellPrice, d.sellDate)
}

// Input converts the scenario into a disposal. ParseDates must have run first.
func (s Scenario) Input() (cgt.DisposalInput, error) {
	if !s.parsed || s.BuyPrice == nil || s.SellPrice == nil {
		return cgt.DisposalInput{}, fmt.Errorf("scenario %s: %w", s.Name, ErrDatesNotParsed)
	}
	input, err := buildInput(*s.BuyPrice, s.buyDate, *s.SellPrice, s.sellDate)
	if err != nil {
		return cgt.DisposalInput{}, fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	return input, nil
}

func buildInput(buyPrice float64, buyDate time.Time, sellPrice float64, sellDate time.Time) (cgt.DisposalInput, error) {
	input := cgt.DisposalInput{
		BuyPrice:  mathutil.FromFloat(buyPrice),
		BuyDate:   buyDate,
		SellPrice: mathutil.FromFloat(sellPrice),
		SellDate:  sellDate,
	}
	if err := validation.ValidatePrice("buyPrice", input.BuyPrice); err != nil {
		return cgt.DisposalInput{}, err
	}
	if err := validation.ValidatePrice("sellPrice", input.SellPrice); err != nil {
		return cgt.DisposalInput{}, err
	}
	return input, nil
}

// ActiveScenarios returns the scenarios marked active, in config order.
func (conf *Configuration) ActiveScenarios() []Scenario {
	var active []Scenario
	for _, scenario := range conf.Scenarios {
		if scenario.Active {
			active = append(active, scenario)
		}
	}
	return active
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings. Holding-period warnings need ParseDates to have run.
func (conf *Configuration) ValidateConfiguration() []string {
	var warnings []string

	names := make([]string, 0, len(conf.Scenarios))
	for _, scenario := range conf.Scenarios {
		names = append(names, scenario.Name)
	}
	warnings = append(warnings, validation.ValidateScenarioNames(names)...)

	if len(conf.Scenarios) > 0 && len(conf.ActiveScenarios()) == 0 {
		warnings = append(warnings, "No scenarios are active")
	}

	for _, scenario := range conf.Scenarios {
		if !scenario.parsed {
			continue
		}
		heldDays := datetime.DaysBetween(scenario.buyDate, scenario.sellDate)
		if warning := validation.ValidateHoldingBoundary(scenario.Name, heldDays); warning != "" {
			warnings = append(warnings, warning)
		}
	}

	return warnings
}
