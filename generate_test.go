package queryxml_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/protoforge/queryxml"
	"github.com/protoforge/queryxml/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const validationException model.ShapeID = "smithy.framework#ValidationException"

// apiModel is a service with one operation carrying a constrained input and a
// body-bearing output, and one operation with neither.
func apiModel(t *testing.T) *model.Model {
	t.Helper()
	m, err := model.New(
		&model.Shape{
			ID: "com.example#Api", Kind: model.KindService,
			Operations: []model.ShapeID{"com.example#DescribeThings", "com.example#Ping"},
		},
		&model.Shape{
			ID: "com.example#DescribeThings", Kind: model.KindOperation,
			Input:  "com.example#DescribeThingsInput",
			Output: "com.example#DescribeThingsOutput",
		},
		&model.Shape{ID: "com.example#Ping", Kind: model.KindOperation},
		&model.Shape{
			ID: "com.example#DescribeThingsInput", Kind: model.KindStructure,
			Members: []*model.Member{
				{Name: "Filter", Target: "com.example#String", Traits: model.Traits{model.TraitRequired: nil}},
			},
		},
		&model.Shape{
			ID: "com.example#DescribeThingsOutput", Kind: model.KindStructure,
			Members: []*model.Member{
				{Name: "Name", Target: "com.example#String"},
				{Name: "Count", Target: "com.example#Integer"},
				{Name: "Things", Target: "com.example#ThingList", Traits: model.Traits{model.TraitXMLFlattened: nil}},
			},
		},
		&model.Shape{ID: "com.example#String", Kind: model.KindString},
		&model.Shape{ID: "com.example#Integer", Kind: model.KindNumber, Number: model.FormatInteger},
		&model.Shape{
			ID: "com.example#ThingList", Kind: model.KindList,
			ListMember: &model.Member{Name: "member", Target: "com.example#String"},
		},
	)
	require.NoError(t, err)
	return m
}

func TestGenerate(t *testing.T) {
	cfg := queryxml.Config{
		Service:            "com.example#Api",
		AddValidationError: true,
		TypesImport:        "example.com/svc/types",
	}
	res, err := queryxml.Generate(apiModel(t), cfg, queryxml.WithLogger(zap.NewNop()))
	require.NoError(t, err)

	op, err := res.Model.Expect("com.example#DescribeThings")
	require.NoError(t, err)
	assert.True(t, op.HasError(validationException),
		"constrained operation should declare the validation error")

	ping, err := res.Model.Expect("com.example#Ping")
	require.NoError(t, err)
	assert.False(t, ping.HasError(validationException),
		"input-less operation must stay untouched")

	require.Len(t, res.Files, 1)
	assert.Equal(t, "serializers.go", res.Files[0].Name)
	src := string(res.Files[0].Content)
	assert.Contains(t, src, "package serializers")
	assert.Contains(t, src, "func serializeOpDescribeThingsOutput(")
	assert.Contains(t, src, "Code generated by queryxmlgen. DO NOT EDIT.")

	assert.Equal(t, []model.ShapeID{"com.example#Ping"}, res.Skipped)
}

func TestGenerateFlagDisabled(t *testing.T) {
	cfg := queryxml.Config{
		Service:     "com.example#Api",
		TypesImport: "example.com/svc/types",
	}
	res, err := queryxml.Generate(apiModel(t), cfg)
	require.NoError(t, err)

	op, err := res.Model.Expect("com.example#DescribeThings")
	require.NoError(t, err)
	assert.False(t, op.HasError(validationException),
		"an unlisted service without the flag must not gain the error")
}

func TestGenerateAllowListOverride(t *testing.T) {
	cfg := queryxml.Config{
		Service:     "com.example#Api",
		AllowList:   []model.ShapeID{"com.example#Api"},
		TypesImport: "example.com/svc/types",
	}
	res, err := queryxml.Generate(apiModel(t), cfg)
	require.NoError(t, err)

	op, err := res.Model.Expect("com.example#DescribeThings")
	require.NoError(t, err)
	assert.True(t, op.HasError(validationException),
		"allow-listed service gets the error regardless of the flag")
}

func TestGenerateMissingService(t *testing.T) {
	_, err := queryxml.Generate(apiModel(t), queryxml.Config{})
	require.Error(t, err)
}

func TestGenerateParallelMatchesSerial(t *testing.T) {
	cfg := queryxml.Config{
		Service:     "com.example#Api",
		TypesImport: "example.com/svc/types",
	}

	serial, err := queryxml.Generate(apiModel(t), cfg)
	require.NoError(t, err)
	parallel, err := queryxml.Generate(apiModel(t), cfg, queryxml.WithParallelism(8))
	require.NoError(t, err)

	require.Len(t, parallel.Files, 1)
	assert.True(t, bytes.Equal(serial.Files[0].Content, parallel.Files[0].Content),
		"parallel generation must be byte-identical to serial")
	assert.Equal(t, serial.Skipped, parallel.Skipped)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queryxml.toml")
	doc := `service = "com.example#Api"
add_validation_error = true
allow_list = ["com.amazonaws.ec2#AmazonEC2"]
ignore_defaults = true
types_import = "example.com/svc/types"
package = "wire"
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	cfg, err := queryxml.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, queryxml.Config{
		Service:            "com.example#Api",
		AddValidationError: true,
		AllowList:          []model.ShapeID{"com.amazonaws.ec2#AmazonEC2"},
		IgnoreDefaults:     true,
		TypesImport:        "example.com/svc/types",
		Package:            "wire",
	}, cfg)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := queryxml.LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}
