package contrast

import (
	"strings"
	"time"

	"github.com/custodia-labs/appsec-mcp/internal/core/domain"
)

// Wire types mirror the platform JSON. Only the fields the tools expose are
// decoded.

type metadataEntity struct {
	FieldName  string `json:"fieldName"`
	FieldValue string `json:"fieldValue"`
}

type applicationJSON struct {
	AppID            string           `json:"app_id"`
	Name             string           `json:"name"`
	Language         string           `json:"language"`
	Status           string           `json:"status"`
	Importance       string           `json:"importance_description"`
	Tags             []string         `json:"tags"`
	Techs            []string         `json:"techs"`
	MetadataEntities []metadataEntity `json:"metadataEntities"`
	LastSeen         int64            `json:"last_seen"`
}

type applicationsResponse struct {
	Applications []applicationJSON `json:"applications"`
	Count        int               `json:"count"`
}

type sessionMetadataJSON struct {
	SessionID string `json:"session_id"`
	Metadata  []struct {
		DisplayLabel string `json:"display_label"`
		Value        string `json:"value"`
	} `json:"metadata"`
}

type traceJSON struct {
	UUID               string                `json:"uuid"`
	Title              string                `json:"title"`
	RuleName           string                `json:"rule_name"`
	Severity           string                `json:"severity"`
	Status             string                `json:"status"`
	Application        *applicationJSON      `json:"application"`
	ServerEnvironments []string              `json:"server_environments"`
	Tags               []string              `json:"tags"`
	FirstTimeSeen      int64                 `json:"first_time_seen"`
	LastTimeSeen       int64                 `json:"last_time_seen"`
	SessionMetadata    []sessionMetadataJSON `json:"session_metadata"`
	Request            *struct {
		Method string `json:"method"`
		URI    string `json:"uri"`
		Body   string `json:"body"`
	} `json:"request"`
	Recommendation *struct {
		Text string `json:"text"`
	} `json:"recommendation"`
	CWE   string `json:"cwe"`
	OWASP string `json:"owasp"`
}

type tracesResponse struct {
	Traces []traceJSON `json:"traces"`
	Count  int         `json:"count"`
}

type traceResponse struct {
	Trace traceJSON `json:"trace"`
}

type storyResponse struct {
	Story struct {
		Chapters []struct {
			Introduction string `json:"introText"`
			Body         string `json:"body"`
		} `json:"chapters"`
		Risk struct {
			Text string `json:"text"`
		} `json:"risk"`
	} `json:"story"`
}

type attackJSON struct {
	UUID         string   `json:"uuid"`
	Source       string   `json:"source"`
	Status       string   `json:"status"`
	Result       string   `json:"result"`
	Rules        []string `json:"rules"`
	Applications []struct {
		Application applicationJSON `json:"application"`
	} `json:"attacksApplication"`
	Probes    int   `json:"probes"`
	StartTime int64 `json:"start_time"`
	EndTime   int64 `json:"end_time"`
}

type attacksResponse struct {
	Attacks []attackJSON `json:"attacks"`
}

type libraryJSON struct {
	Hash          string `json:"hash"`
	FileName      string `json:"file_name"`
	Version       string `json:"file_version"`
	LatestVersion string `json:"latest_version"`
	Grade         string `json:"grade"`
	ClassCount    int    `json:"class_count"`
	ClassesUsed   int    `json:"classes_used"`
	ReleaseDate   int64  `json:"release_date"`
	Vulns         []struct {
		Name         string  `json:"name"`
		SeverityCode string  `json:"severity_code"`
		Score        float64 `json:"cvss_3_severity_value"`
	} `json:"vulns"`
}

type librariesResponse struct {
	Libraries []libraryJSON `json:"libraries"`
}

type routeJSON struct {
	Signature       string `json:"signature"`
	Status          string `json:"status"`
	Exercised       int64  `json:"exercised"`
	Vulnerabilities int    `json:"vulnerabilities"`
	Observations    []struct {
		Verb string `json:"verb"`
		URL  string `json:"url"`
	} `json:"observations"`
}

type routesResponse struct {
	Routes []routeJSON `json:"routes"`
}

type agentSessionJSON struct {
	AgentSessionID   string `json:"agentSessionId"`
	CreatedDate      int64  `json:"createdDate"`
	MetadataSessions []struct {
		MetadataField struct {
			AgentLabel string `json:"agentLabel"`
		} `json:"metadataField"`
		Value string `json:"value"`
	} `json:"metadataSessions"`
}

type scanProjectJSON struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Language     string `json:"language"`
	LastScanID   string `json:"lastScanId"`
	LastScanTime string `json:"lastScanTime"`
	Critical     int    `json:"critical"`
	High         int    `json:"high"`
	Medium       int    `json:"medium"`
	Low          int    `json:"low"`
	Note         int    `json:"note"`
}

type scanFindingJSON struct {
	ID       string `json:"id"`
	RuleID   string `json:"ruleId"`
	Severity string `json:"severity"`
	Message  struct {
		Text string `json:"text"`
	} `json:"message"`
	Location struct {
		ArtifactURI string `json:"artifactUri"`
		StartLine   int    `json:"startLine"`
	} `json:"location"`
	Status string `json:"status"`
}

// sastPage is the page-number envelope of the scan service.
type sastPage[T any] struct {
	Content []T `json:"content"`
}

// millis converts epoch milliseconds; zero stays the zero time.
func millis(ms int64) time.Time {
	if ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

func (a applicationJSON) toDomain() domain.Application {
	app := domain.Application{
		ID:         a.AppID,
		Name:       a.Name,
		Language:   a.Language,
		Status:     a.Status,
		Importance: a.Importance,
		Tags:       a.Tags,
		Techs:      a.Techs,
		LastSeen:   millis(a.LastSeen),
	}
	for _, m := range a.MetadataEntities {
		app.Metadata = append(app.Metadata, domain.MetadataItem{Name: m.FieldName, Value: m.FieldValue})
	}
	return app
}

func (t traceJSON) toDomain() domain.Vulnerability {
	v := domain.Vulnerability{
		ID:        t.UUID,
		Title:     t.Title,
		Type:      t.RuleName,
		Severity:  domain.Severity(strings.ToUpper(t.Severity)),
		Status:    domain.VulnerabilityStatus(t.Status),
		Tags:      t.Tags,
		FirstSeen: millis(t.FirstTimeSeen),
		LastSeen:  millis(t.LastTimeSeen),
	}
	if t.Application != nil {
		v.AppID = t.Application.AppID
		v.AppName = t.Application.Name
	}
	for _, env := range t.ServerEnvironments {
		v.Environments = append(v.Environments, domain.Environment(strings.ToUpper(env)))
	}
	for _, s := range t.SessionMetadata {
		group := domain.SessionMetadata{SessionID: s.SessionID}
		for _, m := range s.Metadata {
			group.Metadata = append(group.Metadata, domain.MetadataItem{Name: m.DisplayLabel, Value: m.Value})
		}
		v.Sessions = append(v.Sessions, group)
	}
	return v
}

func (t traceJSON) toDetail(story storyResponse) domain.VulnerabilityDetail {
	d := domain.VulnerabilityDetail{
		Vulnerability: t.toDomain(),
		RuleName:      t.RuleName,
		CWE:           t.CWE,
		OWASP:         t.OWASP,
	}
	if t.Request != nil {
		d.Request = strings.TrimSpace(t.Request.Method + " " + t.Request.URI + "\n" + t.Request.Body)
	}
	if t.Recommendation != nil {
		d.Recommendation = plainText(t.Recommendation.Text)
	}

	var parts []string
	for _, ch := range story.Story.Chapters {
		if text := plainText(ch.Introduction + " " + ch.Body); text != "" {
			parts = append(parts, text)
		}
	}
	if risk := plainText(story.Story.Risk.Text); risk != "" {
		parts = append(parts, risk)
	}
	d.Story = strings.Join(parts, "\n\n")
	return d
}

func (a attackJSON) toDomain() domain.Attack {
	attack := domain.Attack{
		ID:        a.UUID,
		Source:    a.Source,
		Status:    a.Status,
		Result:    a.Result,
		Rules:     a.Rules,
		Probes:    a.Probes,
		StartTime: millis(a.StartTime),
		EndTime:   millis(a.EndTime),
	}
	for _, app := range a.Applications {
		attack.Applications = append(attack.Applications, app.Application.Name)
	}
	return attack
}

func (l libraryJSON) toDomain() domain.Library {
	lib := domain.Library{
		Hash:          l.Hash,
		FileName:      l.FileName,
		Version:       l.Version,
		LatestVersion: l.LatestVersion,
		Grade:         l.Grade,
		ClassCount:    l.ClassCount,
		ClassesUsed:   l.ClassesUsed,
		ReleaseDate:   millis(l.ReleaseDate),
	}
	for _, v := range l.Vulns {
		lib.Vulnerabilities = append(lib.Vulnerabilities, domain.LibraryVulnerability{
			Name:     v.Name,
			Severity: v.SeverityCode,
			Score:    v.Score,
		})
	}
	return lib
}

func (r routeJSON) toDomain() domain.Route {
	route := domain.Route{
		Signature:       r.Signature,
		Status:          domain.RouteStatus(strings.ToUpper(r.Status)),
		Exercised:       r.Exercised,
		Vulnerabilities: r.Vulnerabilities,
	}
	for _, o := range r.Observations {
		route.Observations = append(route.Observations, strings.TrimSpace(o.Verb+" "+o.URL))
	}
	return route
}

func (s agentSessionJSON) toDomain(appID string) domain.AgentSession {
	session := domain.AgentSession{
		ID:        s.AgentSessionID,
		AppID:     appID,
		StartedAt: millis(s.CreatedDate),
	}
	for _, m := range s.MetadataSessions {
		session.Metadata = append(session.Metadata, domain.MetadataItem{
			Name:  m.MetadataField.AgentLabel,
			Value: m.Value,
		})
	}
	return session
}

func (p scanProjectJSON) toDomain() domain.ScanProject {
	project := domain.ScanProject{
		ID:         p.ID,
		Name:       p.Name,
		Language:   p.Language,
		LastScanID: p.LastScanID,
		Critical:   p.Critical,
		High:       p.High,
		Medium:     p.Medium,
		Low:        p.Low,
		Note:       p.Note,
	}
	if t, err := time.Parse(time.RFC3339, p.LastScanTime); err == nil {
		project.LastScanTime = t
	}
	return project
}

func (f scanFindingJSON) toDomain() domain.ScanFinding {
	return domain.ScanFinding{
		ID:       f.ID,
		RuleID:   f.RuleID,
		Severity: domain.Severity(strings.ToUpper(f.Severity)),
		Message:  f.Message.Text,
		File:     f.Location.ArtifactURI,
		Line:     f.Location.StartLine,
		Status:   f.Status,
	}
}

// mapAll converts a wire slice, preserving order.
func mapAll[W, T any](in []W, convert func(W) T) []T {
	out := make([]T, len(in))
	for i := range in {
		out[i] = convert(in[i])
	}
	return out
}
