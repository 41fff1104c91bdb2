package component

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/exp/maps"
)

// Kind enumerates the pluggable component families a match accepts.
type Kind string

const (
	KindReward            Kind = "reward_function"
	KindObsBuilder        Kind = "obs_builder"
	KindActionParser      Kind = "action_parser"
	KindStateSetter       Kind = "state_setter"
	KindTerminalCondition Kind = "terminal_conditions"
)

var (
	ErrComponentExists   = errors.New("component already registered")
	ErrComponentNotFound = errors.New("component not found")
	ErrBadSpec           = errors.New("malformed component spec")
)

// Params carries raw constructor parameters from the declarative config.
type Params map[string]any

type RewardFactory func(params Params) (Reward, error)

type ObsBuilderFactory func(params Params) (ObsBuilder, error)

type ActionParserFactory func(params Params) (ActionParser, error)

type StateSetterFactory func(params Params) (StateSetter, error)

type TerminalConditionFactory func(params Params) (TerminalCondition, error)

type registry struct {
	mu                 sync.RWMutex
	rewards            map[string]RewardFactory
	obsBuilders        map[string]ObsBuilderFactory
	actionParsers      map[string]ActionParserFactory
	stateSetters       map[string]StateSetterFactory
	terminalConditions map[string]TerminalConditionFactory
}

var defaultRegistry = newRegistry()

func newRegistry() *registry {
	return &registry{
		rewards:            make(map[string]RewardFactory),
		obsBuilders:        make(map[string]ObsBuilderFactory),
		actionParsers:      make(map[string]ActionParserFactory),
		stateSetters:       make(map[string]StateSetterFactory),
		terminalConditions: make(map[string]TerminalConditionFactory),
	}
}

func RegisterReward(name string, factory RewardFactory) error {
	if err := validateRegistration(name, factory == nil); err != nil {
		return err
	}
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	if _, exists := defaultRegistry.rewards[name]; exists {
		return fmt.Errorf("%w: %s", ErrComponentExists, name)
	}
	defaultRegistry.rewards[name] = factory
	return nil
}

func RegisterObsBuilder(name string, factory ObsBuilderFactory) error {
	if err := validateRegistration(name, factory == nil); err != nil {
		return err
	}
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	if _, exists := defaultRegistry.obsBuilders[name]; exists {
		return fmt.Errorf("%w: %s", ErrComponentExists, name)
	}
	defaultRegistry.obsBuilders[name] = factory
	return nil
}

func RegisterActionParser(name string, factory ActionParserFactory) error {
	if err := validateRegistration(name, factory == nil); err != nil {
		return err
	}
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	if _, exists := defaultRegistry.actionParsers[name]; exists {
		return fmt.Errorf("%w: %s", ErrComponentExists, name)
	}
	defaultRegistry.actionParsers[name] = factory
	return nil
}

func RegisterStateSetter(name string, factory StateSetterFactory) error {
	if err := validateRegistration(name, factory == nil); err != nil {
		return err
	}
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	if _, exists := defaultRegistry.stateSetters[name]; exists {
		return fmt.Errorf("%w: %s", ErrComponentExists, name)
	}
	defaultRegistry.stateSetters[name] = factory
	return nil
}

func RegisterTerminalCondition(name string, factory TerminalConditionFactory) error {
	if err := validateRegistration(name, factory == nil); err != nil {
		return err
	}
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	if _, exists := defaultRegistry.terminalConditions[name]; exists {
		return fmt.Errorf("%w: %s", ErrComponentExists, name)
	}
	defaultRegistry.terminalConditions[name] = factory
	return nil
}

func validateRegistration(name string, nilFactory bool) error {
	if name == "" {
		return errors.New("component name is required")
	}
	if nilFactory {
		return errors.New("component factory is required")
	}
	return nil
}

// Spec is one component's raw specification: either a bare name or a
// mapping with a "name" key and constructor parameters.
type Spec struct {
	Name   string
	Params Params
}

// ParseSpec accepts the raw forms a declarative config may use for a
// single component value.
func ParseSpec(raw any) (Spec, error) {
	switch v := raw.(type) {
	case string:
		if v == "" {
			return Spec{}, fmt.Errorf("%w: empty component name", ErrBadSpec)
		}
		return Spec{Name: v}, nil
	case Spec:
		return v, nil
	case map[string]any:
		name, _ := v["name"].(string)
		if name == "" {
			return Spec{}, fmt.Errorf("%w: missing name key", ErrBadSpec)
		}
		params := make(Params, len(v))
		for key, value := range v {
			if key == "name" {
				continue
			}
			params[key] = value
		}
		return Spec{Name: name, Params: params}, nil
	default:
		return Spec{}, fmt.Errorf("%w: unsupported spec type %T", ErrBadSpec, raw)
	}
}

// BuildReward resolves and constructs a reward from its raw spec. A value
// that already implements Reward passes through unchanged.
func BuildReward(raw any) (Reward, error) {
	if built, ok := raw.(Reward); ok {
		return built, nil
	}
	spec, err := ParseSpec(raw)
	if err != nil {
		return nil, err
	}
	defaultRegistry.mu.RLock()
	factory, ok := defaultRegistry.rewards[spec.Name]
	defaultRegistry.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: reward %s", ErrComponentNotFound, spec.Name)
	}
	return factory(spec.Params)
}

func BuildObsBuilder(raw any) (ObsBuilder, error) {
	if built, ok := raw.(ObsBuilder); ok {
		return built, nil
	}
	spec, err := ParseSpec(raw)
	if err != nil {
		return nil, err
	}
	defaultRegistry.mu.RLock()
	factory, ok := defaultRegistry.obsBuilders[spec.Name]
	defaultRegistry.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: obs builder %s", ErrComponentNotFound, spec.Name)
	}
	return factory(spec.Params)
}

func BuildActionParser(raw any) (ActionParser, error) {
	if built, ok := raw.(ActionParser); ok {
		return built, nil
	}
	spec, err := ParseSpec(raw)
	if err != nil {
		return nil, err
	}
	defaultRegistry.mu.RLock()
	factory, ok := defaultRegistry.actionParsers[spec.Name]
	defaultRegistry.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: action parser %s", ErrComponentNotFound, spec.Name)
	}
	return factory(spec.Params)
}

func BuildStateSetter(raw any) (StateSetter, error) {
	if built, ok := raw.(StateSetter); ok {
		return built, nil
	}
	spec, err := ParseSpec(raw)
	if err != nil {
		return nil, err
	}
	defaultRegistry.mu.RLock()
	factory, ok := defaultRegistry.stateSetters[spec.Name]
	defaultRegistry.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: state setter %s", ErrComponentNotFound, spec.Name)
	}
	return factory(spec.Params)
}

// BuildTerminalConditions accepts a single spec or a list of specs and
// constructs every condition in order.
func BuildTerminalConditions(raw any) ([]TerminalCondition, error) {
	if built, ok := raw.(TerminalCondition); ok {
		return []TerminalCondition{built}, nil
	}
	if built, ok := raw.([]TerminalCondition); ok {
		return built, nil
	}

	items, ok := raw.([]any)
	if !ok {
		items = []any{raw}
	}
	conditions := make([]TerminalCondition, 0, len(items))
	for _, item := range items {
		if built, ok := item.(TerminalCondition); ok {
			conditions = append(conditions, built)
			continue
		}
		spec, err := ParseSpec(item)
		if err != nil {
			return nil, err
		}
		defaultRegistry.mu.RLock()
		factory, ok := defaultRegistry.terminalConditions[spec.Name]
		defaultRegistry.mu.RUnlock()
		if !ok {
			return nil, fmt.Errorf("%w: terminal condition %s", ErrComponentNotFound, spec.Name)
		}
		condition, err := factory(spec.Params)
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, condition)
	}
	return conditions, nil
}

// ListRegistered returns the registered names for one component kind.
func ListRegistered(kind Kind) []string {
	defaultRegistry.mu.RLock()
	defer defaultRegistry.mu.RUnlock()

	var names []string
	switch kind {
	case KindReward:
		names = maps.Keys(defaultRegistry.rewards)
	case KindObsBuilder:
		names = maps.Keys(defaultRegistry.obsBuilders)
	case KindActionParser:
		names = maps.Keys(defaultRegistry.actionParsers)
	case KindStateSetter:
		names = maps.Keys(defaultRegistry.stateSetters)
	case KindTerminalCondition:
		names = maps.Keys(defaultRegistry.terminalConditions)
	}
	sort.Strings(names)
	return names
}

func resetRegistryForTests() {
	defaultRegistry.mu.Lock()
	defaultRegistry.rewards = make(map[string]RewardFactory)
	defaultRegistry.obsBuilders = make(map[string]ObsBuilderFactory)
	defaultRegistry.actionParsers = make(map[string]ActionParserFactory)
	defaultRegistry.stateSetters = make(map[string]StateSetterFactory)
	defaultRegistry.terminalConditions = make(map[string]TerminalConditionFactory)
	defaultRegistry.mu.Unlock()

	registerDefaults()
}
