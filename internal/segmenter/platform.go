package segmenter

import (
	"regexp"
	"sort"
	"strings"

	"github.com/fjglira/tcgen/internal/domain"
)

// Relevance weights applied by AnalyzePlatform.
const (
	baseRelevance      = 1.0
	platformRelevance  = 0.5
	versionRelevance   = 0.3
	technicalRelevance = 0.2
)

var (
	platformTypeRe = regexp.MustCompile(`Platform\s+Type\s+([A-Z])`)
	easyDemoRe     = regexp.MustCompile(`(?i)Easy\s+Demo`)
	versionRe      = regexp.MustCompile(`Version\s+(\d+\.\d+)`)
	altVersionRe   = regexp.MustCompile(`[Vv](?:\.|ersion)\s*(\d+(?:\.\d+)?)`)

	machineMentionRe = regexp.MustCompile(`(?i)\b(?:machine|type)\s+([a-z])\b`)
	versionMentionRe = regexp.MustCompile(`(?i)\bversion\s+(\d+(?:\.\d+)*)`)
)

// ExtractPlatformInfo looks for the platform type, name and version stated in a document.
func ExtractPlatformInfo(text string) domain.PlatformInfo {
	var info domain.PlatformInfo

	if m := platformTypeRe.FindStringSubmatch(text); m != nil {
		info.Type = m[1]
	}
	if easyDemoRe.MatchString(text) {
		info.Type = "E"
		info.Name = "Easy Demo"
	}

	if m := versionRe.FindStringSubmatch(text); m != nil {
		info.Version = m[1]
	} else if m := altVersionRe.FindStringSubmatch(text); m != nil {
		info.Version = m[1]
		if !strings.Contains(info.Version, ".") {
			info.Version += ".0"
		}
	}

	return info
}

// AnalyzePlatform flags platform and version specific requirements, scores
// them and returns a copy sorted by descending relevance. Ties keep their order.
func AnalyzePlatform(reqs []domain.Requirement, info domain.PlatformInfo) []domain.Requirement {
	platformKeywords := platformKeywords(info)
	versionKeywords := versionKeywords(info.Version)

	out := make([]domain.Requirement, len(reqs))
	for i, req := range reqs {
		req.Tags = append([]string(nil), req.Tags...)
		req.PlatformSpecific = containsAny(req.Description, platformKeywords)
		req.VersionSpecific = containsAny(req.Description, versionKeywords)

		score := baseRelevance
		if req.PlatformSpecific {
			score += platformRelevance
		}
		if req.VersionSpecific {
			score += versionRelevance
		}
		if req.Technical {
			score += technicalRelevance
		}
		req.RelevanceScore = score
		out[i] = req
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RelevanceScore > out[j].RelevanceScore
	})
	return out
}

func platformKeywords(info domain.PlatformInfo) []string {
	var kws []string
	if info.Type != "" {
		kws = append(kws, "platform "+info.Type, "machine type "+info.Type, "type "+info.Type)
	}
	if info.Name != "" {
		kws = append(kws, info.Name)
		if parts := strings.Fields(info.Name); len(parts) > 1 {
			kws = append(kws, parts...)
		}
	}
	return lowerAll(kws)
}

func versionKeywords(version string) []string {
	if version == "" {
		return nil
	}
	kws := []string{"version " + version, "v" + version}
	if major, _, ok := strings.Cut(version, "."); ok {
		kws = append(kws, "version "+major, "v"+major)
	}
	return lowerAll(kws)
}

// ExtractMachineInfo returns the machine type mentioned most often across the
// requirements (first seen wins a tie) and the first version mentioned.
func ExtractMachineInfo(reqs []domain.Requirement) domain.MachineInfo {
	var info domain.MachineInfo
	counts := make(map[string]int)
	var order []string

	for _, req := range reqs {
		for _, m := range machineMentionRe.FindAllStringSubmatch(req.Description, -1) {
			t := strings.ToUpper(m[1])
			if counts[t] == 0 {
				order = append(order, t)
			}
			counts[t]++
		}
		if info.Version == "" {
			if m := versionMentionRe.FindStringSubmatch(req.Description); m != nil {
				info.Version = m[1]
			}
		}
	}

	best := 0
	for _, t := range order {
		if counts[t] > best {
			best = counts[t]
			info.MachineType = t
		}
	}
	return info
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
