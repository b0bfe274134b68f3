package bcf

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Version is a BCF format version, written "<major>.<minor>".
type Version struct {
	Major int
	Minor int
}

// V1_0 is BCF 1.0.
var V1_0 = Version{Major: 1, Minor: 0}

// LatestVersion is the newest supported version.
var LatestVersion = V1_0

// supportedVersions is the explicit allow-list of known versions.
var supportedVersions = []Version{V1_0}

var versionRe = regexp.MustCompile(`^(\d+)\.(\d+)$`)

// ParseVersion parses a "<major>.<minor>" string.
func ParseVersion(s string) (Version, bool) {
	m := versionRe.FindStringSubmatch(s)
	if m == nil {
		return Version{}, false
	}
	major, err := strconv.Atoi(m[1])
	if err != nil {
		return Version{}, false
	}
	minor, err := strconv.Atoi(m[2])
	if err != nil {
		return Version{}, false
	}
	return Version{Major: major, Minor: minor}, true
}

func (v Version) String() string { return fmt.Sprintf("%d.%d", v.Major, v.Minor) }

// IsZero reports whether v is the zero Version (used for "not set").
func (v Version) IsZero() bool { return v == Version{} }

// SupportedVersions returns all known versions in ascending order.
func SupportedVersions() []Version {
	return append([]Version(nil), supportedVersions...)
}

// IsSupported reports whether v is a known version.
func IsSupported(v Version) bool {
	for _, s := range supportedVersions {
		if s == v {
			return true
		}
	}
	return false
}

var latestByMajor = func() map[int]Version {
	out := map[int]Version{}
	for _, v := range supportedVersions {
		if cur, ok := out[v.Major]; !ok || v.Minor > cur.Minor {
			out[v.Major] = v
		}
	}
	return out
}()

// LatestByMajor returns the highest known minor version of a major version.
func LatestByMajor(major int) (Version, bool) {
	v, ok := latestByMajor[major]
	return v, ok
}

func supportedList() string {
	s := make([]string, len(supportedVersions))
	for i, v := range supportedVersions {
		s[i] = v.String()
	}
	return strings.Join(s, ", ")
}

// actionSets lists the known action types of a version by the actor type
// allowed to perform them. Types in neither set are unknown to the version.
type actionSets struct {
	player map[ActionType]struct{}
	npc    map[ActionType]struct{}
}

func (s actionSets) known() []ActionType {
	out := make([]ActionType, 0, len(s.player)+len(s.npc))
	for t := range s.player {
		out = append(out, t)
	}
	for t := range s.npc {
		out = append(out, t)
	}
	return out
}

func setOf(types ...ActionType) map[ActionType]struct{} {
	m := make(map[ActionType]struct{}, len(types))
	for _, t := range types {
		m[t] = struct{}{}
	}
	return m
}

var versionActionTypes = map[Version]actionSets{
	V1_0: {
		player: setOf(ActionAttack, ActionSpell, ActionUtility, ActionDeath),
		npc:    setOf(ActionNPCAttack, ActionNPCPhase),
	},
}
