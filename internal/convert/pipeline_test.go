package convert

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/configrepo/internal/crmodel"
	"github.com/mrz1836/configrepo/internal/domain"
	crerrors "github.com/mrz1836/configrepo/internal/errors"
)

func TestToPipeline(t *testing.T) {
	c, _ := newTestConverter(nil)

	got, err := c.ToPipeline(crPipeline("pipeline", "group1"), nil)
	require.NoError(t, err)

	assert.Equal(t, "pipeline", got.Name.ToLower())
	assert.Equal(t, "label", got.LabelTemplate)
	assert.True(t, got.IsLockableOnFailure())
	require.NotNil(t, got.TrackingTool)
	assert.Equal(t, "link", got.TrackingTool.Link)
	assert.Equal(t, "regex", got.TrackingTool.Regex)
	require.NotNil(t, got.Timer)
	assert.Equal(t, "timer", got.Timer.Spec)
	assert.True(t, got.Timer.OnlyOnChanges)
	assert.True(t, got.Variables.Has("key"))
	require.Len(t, got.Materials, 1)
	assert.IsType(t, &domain.GitMaterial{}, got.Materials[0])
	require.Len(t, got.Stages, 1)
	assert.NotNil(t, got.Stage("stagename"))
	assert.False(t, got.HasTemplate())
}

func TestToPipeline_Minimal(t *testing.T) {
	c, _ := newTestConverter(nil)

	got, err := c.ToPipeline(&crmodel.Pipeline{
		Name:      "p1",
		Materials: []crmodel.MaterialSpec{crmodel.NewMaterialSpec(crGit())},
		Stages:    []*crmodel.Stage{crStage()},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "${COUNT}", got.LabelTemplate)
	assert.Equal(t, domain.LockBehaviorNone, got.LockBehavior)
	assert.False(t, got.IsLockable())
	assert.Nil(t, got.TrackingTool)
	assert.Nil(t, got.Timer)
	assert.Empty(t, got.Params)
}

func TestToPipeline_Template(t *testing.T) {
	c, _ := newTestConverter(nil)

	cr := crPipeline("p1", "")
	cr.Template = "template"
	cr.Parameters = []*crmodel.Parameter{{Name: "param", Value: "value"}}

	got, err := c.ToPipeline(cr, nil)
	require.NoError(t, err)

	assert.True(t, got.HasTemplate())
	assert.Equal(t, "template", got.TemplateName.ToLower())
	assert.Empty(t, got.Stages)
	assert.True(t, got.IsEmpty())
	value, ok := got.Param("param")
	assert.True(t, ok)
	assert.Equal(t, "value", value)
}

func TestToPipeline_Errors(t *testing.T) {
	c, _ := newTestConverter(nil)

	tests := []struct {
		name     string
		mutate   func(p *crmodel.Pipeline)
		kind     error
		contains string
	}{
		{
			name:   "invalid lock behavior",
			mutate: func(p *crmodel.Pipeline) { p.LockBehavior = "sometimes" },
			kind:   crerrors.ErrInvalidFieldValue,
		},
		{
			name:   "blank timer spec",
			mutate: func(p *crmodel.Pipeline) { p.Timer = &crmodel.Timer{Spec: "  "} },
			kind:   crerrors.ErrMissingMandatoryField,
		},
		{
			name: "bad material",
			mutate: func(p *crmodel.Pipeline) {
				p.Materials = append(p.Materials, crmodel.NewMaterialSpec(&crmodel.UnknownMaterial{Type: "x"}))
			},
			kind:     crerrors.ErrUnknownVariant,
			contains: "material 2: ",
		},
		{
			name:     "bad stage",
			mutate:   func(p *crmodel.Pipeline) { p.Stages[0].EnvironmentVariables[0].EncryptedValue = "junk" },
			kind:     crerrors.ErrSecretResolution,
			contains: `stage "stageName": `,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cr := crPipeline("p1", "")
			tc.mutate(cr)

			got, err := c.ToPipeline(cr, nil)
			require.ErrorIs(t, err, tc.kind)
			assert.Nil(t, got)
			assert.Contains(t, err.Error(), tc.contains)
		})
	}
}

func TestToTimer(t *testing.T) {
	got, err := ToTimer(&crmodel.Timer{Spec: "0 15 10 * * ? *"})
	require.NoError(t, err)
	assert.Equal(t, "0 15 10 * * ? *", got.Spec)
	assert.False(t, got.OnlyOnChanges)

	got, err = ToTimer(&crmodel.Timer{Spec: "@daily", OnlyOnChanges: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, got.OnlyOnChanges)

	_, err = ToTimer(&crmodel.Timer{})
	require.ErrorIs(t, err, crerrors.ErrMissingMandatoryField)
}

func TestToEnvironment(t *testing.T) {
	c, _ := newTestConverter(nil)

	got, err := c.ToEnvironment(&crmodel.Environment{
		Name:                 "dev",
		EnvironmentVariables: []*crmodel.EnvironmentVariable{{Name: "key", Value: "value"}},
		Agents:               []string{"12"},
		Pipelines:            []string{"pipe1"},
	})
	require.NoError(t, err)

	assert.Equal(t, "dev", got.Name.ToLower())
	assert.True(t, got.Contains("pipe1"))
	assert.True(t, got.Contains("PIPE1"))
	assert.True(t, got.HasAgent("12"))
	assert.True(t, got.HasVariable("key"))
}

func TestGroupName(t *testing.T) {
	assert.Equal(t, "defaultGroup", GroupName(""))
	assert.Equal(t, "defaultGroup", GroupName("  "))
	assert.Equal(t, "group1", GroupName("group1"))
}

func TestGroupPipelines(t *testing.T) {
	p := func(name string) *domain.Pipeline {
		return &domain.Pipeline{Name: domain.NewCaseInsensitiveString(name)}
	}

	groups := GroupPipelines([]GroupedPipeline{
		{Group: "b", Pipeline: p("p1")},
		{Group: "", Pipeline: p("p2")},
		{Group: "a", Pipeline: p("p3")},
		{Group: "b", Pipeline: p("p4")},
	})

	require.Len(t, groups, 3)
	assert.Equal(t, "b", groups[0].Name)
	assert.Equal(t, "defaultGroup", groups[1].Name)
	assert.Equal(t, "a", groups[2].Name)
	require.Len(t, groups[0].Pipelines, 2)
	assert.Equal(t, "p1", groups[0].Pipelines[0].Name.String())
	assert.Equal(t, "p4", groups[0].Pipelines[1].Name.String())

	assert.Empty(t, GroupPipelines(nil))
}

func TestToPartialConfig(t *testing.T) {
	c, _ := newTestConverter(nil)

	result := &crmodel.ParseResult{
		Pipelines: []*crmodel.Pipeline{crPipeline("pipeline", "group")},
		Environments: []*crmodel.Environment{
			{Name: "dev", Pipelines: []string{"pipeline"}},
		},
	}

	got, err := c.ToPartialConfig(context.Background(), result, nil)
	require.NoError(t, err)

	require.Len(t, got.Groups, 1)
	assert.Equal(t, "group", got.Groups[0].Name)
	assert.NotNil(t, got.Groups[0].Find("pipeline"))
	require.Len(t, got.Environments, 1)
	assert.True(t, got.Environments[0].Contains("pipeline"))
	assert.Equal(t, 1, got.PipelineCount())
}

func TestToPartialConfig_DefaultGroup(t *testing.T) {
	c, _ := newTestConverter(nil)

	got, err := c.ToPartialConfig(context.Background(),
		&crmodel.ParseResult{Pipelines: []*crmodel.Pipeline{crPipeline("pipeline", "")}}, nil)
	require.NoError(t, err)

	require.NotNil(t, got.Group("defaultGroup"))
	assert.Len(t, got.Group("defaultGroup").Pipelines, 1)
}

func TestToPartialConfig_Empty(t *testing.T) {
	c, _ := newTestConverter(nil)

	got, err := c.ToPartialConfig(context.Background(), &crmodel.ParseResult{}, nil)
	require.NoError(t, err)
	assert.Empty(t, got.Groups)
	assert.Empty(t, got.Environments)

	_, err = c.ToPartialConfig(context.Background(), nil, nil)
	require.ErrorIs(t, err, crerrors.ErrMissingMandatoryField)
}

func manyPipelines(n int) *crmodel.ParseResult {
	result := &crmodel.ParseResult{}
	for i := range n {
		result.Pipelines = append(result.Pipelines, crPipeline(fmt.Sprintf("p%02d", i), fmt.Sprintf("g%d", i%3)))
	}
	return result
}

func pipelineLayout(cfg *domain.PartialConfig) map[string][]string {
	layout := make(map[string][]string)
	var order []string
	for _, g := range cfg.Groups {
		order = append(order, g.Name)
		for _, p := range g.Pipelines {
			layout[g.Name] = append(layout[g.Name], p.Name.String())
		}
	}
	layout["_order"] = order
	return layout
}

func TestToPartialConfig_IndependentOfParallelism(t *testing.T) {
	result := manyPipelines(20)

	sequential, _ := newTestConverter(nil, WithParallelism(1))
	want, err := sequential.ToPartialConfig(context.Background(), result, nil)
	require.NoError(t, err)

	for _, n := range []int{2, 4, 16, 64} {
		t.Run(fmt.Sprintf("parallelism %d", n), func(t *testing.T) {
			c, _ := newTestConverter(nil, WithParallelism(n))
			assert.Equal(t, n, c.Parallelism())

			got, err := c.ToPartialConfig(context.Background(), result, nil)
			require.NoError(t, err)
			assert.Equal(t, pipelineLayout(want), pipelineLayout(got))
		})
	}
}

func TestToPartialConfig_FirstErrorInDeclarationOrder(t *testing.T) {
	result := manyPipelines(12)
	result.Pipelines[3].LockBehavior = "bogus"
	result.Pipelines[9].Materials = []crmodel.MaterialSpec{crmodel.NewMaterialSpec(&crmodel.UnknownMaterial{Type: "x"})}

	for _, n := range []int{1, 8} {
		c, _ := newTestConverter(nil, WithParallelism(n))
		for range 5 {
			got, err := c.ToPartialConfig(context.Background(), result, nil)
			require.Error(t, err)
			assert.Nil(t, got)
			require.ErrorIs(t, err, crerrors.ErrInvalidFieldValue)
			assert.Contains(t, err.Error(), `pipeline "p03": `)
		}
	}
}

func TestToPartialConfig_SnapshotFetchedOnce(t *testing.T) {
	snap, _, _ := testSnapshot()
	c, provider := newTestConverter(snap, WithParallelism(4))

	result := manyPipelines(6)
	for _, p := range result.Pipelines {
		p.Materials = append(p.Materials,
			crmodel.NewMaterialSpec(&crmodel.PackageMaterial{PackageID: "package-id"}),
			crmodel.NewMaterialSpec(&crmodel.PluggableSCMMaterial{SCMID: "scmid"}))
	}

	got, err := c.ToPartialConfig(context.Background(), result, nil)
	require.NoError(t, err)
	assert.Equal(t, 6, got.PipelineCount())
	assert.Equal(t, int32(1), provider.calls.Load())
}

func TestToPartialConfig_ConfigRepoMaterial(t *testing.T) {
	c, _ := newTestConverter(nil)

	result := &crmodel.ParseResult{Pipelines: []*crmodel.Pipeline{{
		Name:      "p1",
		Materials: []crmodel.MaterialSpec{crmodel.NewMaterialSpec(&crmodel.ConfigRepoMaterial{Destination: "cfg"})},
		Stages:    []*crmodel.Stage{crStage()},
	}}}

	got, err := c.ToPartialConfig(context.Background(), result, configMaterial(domain.NewGitMaterial("https://example.com/cfg.git")))
	require.NoError(t, err)

	m := got.Pipelines()[0].Materials[0].(*domain.GitMaterial)
	assert.Equal(t, "https://example.com/cfg.git", m.URL)
	assert.Equal(t, "cfg", m.Folder())
}

func TestToPartialConfig_Canceled(t *testing.T) {
	c, _ := newTestConverter(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := c.ToPartialConfig(ctx, manyPipelines(3), nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, got)

	_, ok := crerrors.AsConversionError(err)
	assert.False(t, ok, "cancellation is returned unwrapped")
}

func TestToPartialConfig_EnvironmentError(t *testing.T) {
	c, _ := newTestConverter(nil)

	result := &crmodel.ParseResult{Environments: []*crmodel.Environment{
		{Name: "prod", EnvironmentVariables: []*crmodel.EnvironmentVariable{{Name: "k", EncryptedValue: "junk"}}},
	}}
	_, err := c.ToPartialConfig(context.Background(), result, nil)
	require.ErrorIs(t, err, crerrors.ErrSecretResolution)
	assert.Contains(t, err.Error(), `environment "prod": `)
}

func TestFilterTranslation(t *testing.T) {
	tests := []struct {
		name       string
		filter     *crmodel.Filter
		wantString string
		wantInvert bool
		wantErr    error
	}{
		{name: "nil", filter: nil},
		{name: "empty", filter: &crmodel.Filter{}},
		{name: "ignore", filter: crmodel.NewIgnoreFilter("a", "b"), wantString: "a,b"},
		{name: "whitelist", filter: crmodel.NewWhitelistFilter("docs/**"), wantString: "docs/**", wantInvert: true},
		{name: "blank patterns dropped", filter: crmodel.NewWhitelistFilter(" ", ""), wantInvert: false},
		{name: "both lists", filter: &crmodel.Filter{Ignore: []string{"a"}, Whitelist: []string{"b"}}, wantErr: crerrors.ErrInvalidFieldValue},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			filter, invert, err := ToFilter(tc.filter)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantString, filter.String())
			assert.Equal(t, tc.wantInvert, invert)
		})
	}
}
