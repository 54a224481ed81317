package workspace

import (
	"bytes"
	"cmp"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/config.schema.json
var configSchemaJSON []byte

const configSchemaURL = "config.schema.json"

// configSchema compiles the embedded schema on first use.
var configSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(configSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("reading config schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(configSchemaURL, doc); err != nil {
		return nil, fmt.Errorf("registering config schema: %w", err)
	}
	return c.Compile(configSchemaURL)
})

var issuePrinter = message.NewPrinter(language.English)

// ConfigIssue is one problem found in config.yaml.
type ConfigIssue struct {
	// Key is the dotted config key, e.g. "mcp.assets.profile". Empty for
	// the document root.
	Key     string
	Message string
	// Keyword is the schema rule that failed, e.g. "enum" or "required".
	Keyword string
}

func (i ConfigIssue) String() string {
	if i.Key == "" {
		return i.Message
	}
	return i.Key + ": " + i.Message
}

// ConfigCheck is the outcome of checking config.yaml against the schema.
type ConfigCheck struct {
	Issues []ConfigIssue
}

// OK reports whether no issues were found.
func (c *ConfigCheck) OK() bool { return len(c.Issues) == 0 }

// CheckConfigBytes checks raw config YAML. The error return is for
// documents that cannot be checked at all; schema violations are issues.
func CheckConfigBytes(data []byte) (*ConfigCheck, error) {
	schema, err := configSchema()
	if err != nil {
		return nil, err
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	// The schema library works on JSON values, so timestamps and other
	// YAML-only types go through their JSON form first.
	asJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("converting config to JSON: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(asJSON))
	if err != nil {
		return nil, fmt.Errorf("converting config to JSON: %w", err)
	}

	var verr *jsonschema.ValidationError
	switch err := schema.Validate(inst); {
	case err == nil:
		return &ConfigCheck{}, nil
	case !errors.As(err, &verr):
		return nil, fmt.Errorf("checking config: %w", err)
	}

	issues := leafIssues(verr)
	if len(issues) == 0 {
		issues = []ConfigIssue{{Message: verr.Error()}}
	}
	return &ConfigCheck{Issues: issues}, nil
}

// CheckConfig checks the workspace's config.yaml.
func CheckConfig(w Workspace) (*ConfigCheck, error) {
	data, err := os.ReadFile(w.ConfigPath())
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return CheckConfigBytes(data)
}

// Keywords that only group other failures; their causes say what is wrong.
var groupingKeywords = []string{"", "$ref", "allOf", "anyOf", "oneOf"}

// leafIssues flattens the failure tree into one issue per failing key and
// rule, sorted by key.
func leafIssues(root *jsonschema.ValidationError) []ConfigIssue {
	var issues []ConfigIssue
	pending := []*jsonschema.ValidationError{root}
	for len(pending) > 0 {
		ve := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if len(ve.Causes) > 0 {
			pending = append(pending, ve.Causes...)
			continue
		}
		if ve.ErrorKind == nil {
			continue
		}
		keyword := ""
		if kw := ve.ErrorKind.KeywordPath(); len(kw) > 0 {
			keyword = kw[len(kw)-1]
		}
		if slices.Contains(groupingKeywords, keyword) {
			continue
		}
		issues = append(issues, ConfigIssue{
			Key:     strings.Join(ve.InstanceLocation, "."),
			Message: ve.ErrorKind.LocalizedString(issuePrinter),
			Keyword: keyword,
		})
	}

	slices.SortFunc(issues, func(a, b ConfigIssue) int {
		return cmp.Or(
			cmp.Compare(a.Key, b.Key),
			cmp.Compare(a.Keyword, b.Keyword),
			cmp.Compare(a.Message, b.Message),
		)
	})
	return slices.Compact(issues)
}
