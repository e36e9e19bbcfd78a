package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/rancher/grafana2moira/internal/grafana"
	"github.com/rancher/grafana2moira/internal/moira"
	"github.com/rancher/grafana2moira/internal/translator"
	"github.com/rancher/grafana2moira/internal/util"
)

// ErrUnresolvedDashboard is returned when no uid can be read from the dashboard link.
var ErrUnresolvedDashboard = errors.New("unable to resolve dashboard uid")

// Mode selects what is written for the dashboard.
type Mode int

const (
	// ModeParse only fetches and parses the dashboard.
	ModeParse Mode = iota
	// ModeRaw exports untranslated panel alerts as JSON.
	ModeRaw
	// ModeMoira exports a Moira trigger set as YAML.
	ModeMoira
)

// Source tells where the dashboard comes from: Reader when set, then ConfigMap when
// set, the Grafana API otherwise. APIURL is always needed to build panel links.
type Source struct {
	DashboardLink string
	APIURL        string
	Token         string
	ConfigMap     string
	Kubeconfig    string
	Reader        io.Reader
}

type Options struct {
	Source
	Mode      Mode
	OutputDir string
	// ManifestName also wraps the trigger set into a ConfigMap manifest when set.
	ManifestName string
	Namespace    string
	Tag          string
	TTLState     moira.TTLState
	Contacts     []moira.Contact
}

type Result struct {
	Dashboard  *grafana.DashboardResponse
	Panels     []grafana.Panel
	TriggerSet *moira.TriggerSet
	Files      []string
}

// Converter runs one export. HTTPClient and ConfigMaps are optional.
type Converter struct {
	Log        logrus.FieldLogger
	HTTPClient *http.Client
	ConfigMaps *grafana.ConfigMapSource
}

// LoadDashboard fetches the dashboard described by src.
func (c *Converter) LoadDashboard(ctx context.Context, src Source) (*grafana.DashboardResponse, error) {
	if src.Reader != nil {
		return grafana.DecodeDashboard(src.Reader)
	}
	if src.ConfigMap != "" {
		ref, err := grafana.ParseConfigMapRef(src.ConfigMap)
		if err != nil {
			return nil, err
		}
		configMaps := c.ConfigMaps
		if configMaps == nil {
			configMaps, err = grafana.NewConfigMapSourceFromKubeconfig(src.Kubeconfig, c.Log)
			if err != nil {
				return nil, err
			}
		}
		return configMaps.GetDashboard(ctx, ref)
	}

	uid, ok := grafana.ResolveDashboardUID(src.DashboardLink)
	if !ok {
		return nil, fmt.Errorf("%w from link %q", ErrUnresolvedDashboard, src.DashboardLink)
	}
	client := grafana.NewClient(src.APIURL, src.Token, c.HTTPClient, c.Log)
	dashboard, err := client.GetDashboard(ctx, uid)
	if err != nil {
		c.Log.Warnf("Response from grafana: %d, check your dashboard link", grafana.StatusCode(err))
		return nil, err
	}
	return dashboard, nil
}

// Run loads the dashboard and writes the output selected by opts.Mode.
func (c *Converter) Run(ctx context.Context, opts Options) (*Result, error) {
	dashboard, err := c.LoadDashboard(ctx, opts.Source)
	if err != nil {
		return nil, err
	}
	title := dashboard.Dashboard.Title
	c.Log.Infof("Grafana dashboard %s successfully parsed!", title)

	result := &Result{
		Dashboard: dashboard,
		Panels:    grafana.EligiblePanels(dashboard.Dashboard),
	}
	c.Log.Debugf("Found %d panels with alerts", len(result.Panels))

	switch opts.Mode {
	case ModeRaw:
		raws := make([]grafana.RawPanelAlert, 0, len(result.Panels))
		for _, panel := range result.Panels {
			raws = append(raws, panel.Raw())
		}
		var b bytes.Buffer
		if err := moira.WriteRawJSON(&b, raws); err != nil {
			return nil, err
		}
		path := util.OutputPath(opts.OutputDir, title, ".json")
		if err := util.WriteFile(path, b.Bytes()); err != nil {
			return nil, err
		}
		result.Files = append(result.Files, path)
	case ModeMoira:
		set, err := c.buildTriggerSet(dashboard, result.Panels, opts)
		if err != nil {
			return nil, err
		}
		result.TriggerSet = set
		files, err := writeTriggerSet(set, title, opts)
		if err != nil {
			return nil, err
		}
		result.Files = append(result.Files, files...)
	default:
		c.Log.Info("You didn't select any option, the dashboard was only parsed, see --help!")
	}

	for _, file := range result.Files {
		c.Log.WithField("file", file).Info("Output written")
	}
	return result, nil
}

func (c *Converter) buildTriggerSet(dashboard *grafana.DashboardResponse, panels []grafana.Panel, opts Options) (*moira.TriggerSet, error) {
	tr := translator.New(c.Log, opts.TTLState)
	set := moira.NewTriggerSet()
	tags := dashboard.Dashboard.Tags

	for _, panel := range panels {
		c.Log.Debugf("Fetching alert from %s and %d", dashboard.Dashboard.Title, panel.ID)
		panelURL, err := dashboard.PanelURL(opts.APIURL, panel.ID)
		if err != nil {
			return nil, err
		}
		src, err := panel.AlertSource(panelURL, tags)
		if err != nil {
			return nil, err
		}
		trigger, err := tr.Translate(src)
		if err != nil {
			return nil, fmt.Errorf("panel %d: %w", panel.ID, err)
		}
		set.AddTrigger(*trigger, opts.Tag)
	}
	set.SetDefaultAlerting(tags, opts.Tag, opts.Contacts)
	return set, nil
}

func writeTriggerSet(set *moira.TriggerSet, title string, opts Options) ([]string, error) {
	content, err := set.EncodeYAML()
	if err != nil {
		return nil, err
	}
	path := util.OutputPath(opts.OutputDir, title, ".yaml")
	if err := util.WriteFile(path, content); err != nil {
		return nil, err
	}
	files := []string{path}

	if opts.ManifestName != "" {
		manifest, err := moira.ConfigMapManifest(opts.ManifestName, opts.Namespace, content)
		if err != nil {
			return nil, err
		}
		manifestPath := util.OutputPath(opts.OutputDir, title, ".configmap.yaml")
		if err := util.WriteFile(manifestPath, manifest); err != nil {
			return nil, err
		}
		files = append(files, manifestPath)
	}
	return files, nil
}
