package bcf

import (
	"fmt"
	"math"
	"sort"
	"sync"

	js "github.com/blert-io/bcf/jsonschema"
	"github.com/blert-io/bcf/schema"
)

// maxInteger bounds every integer field so grammar-valid values always fit
// the decoded int fields.
const maxInteger = math.MaxInt32

func integer(min float64) *schema.NumberNode {
	return schema.Integer().Min(min).Max(maxInteger)
}

type grammarKey struct {
	version Version
	strict  bool
}

// grammarCache holds compiled grammars by (version, strictness). Entries are
// created once and never removed.
var grammarCache = struct {
	sync.Mutex
	m        map[grammarKey]schema.Node
	compiles int
}{m: map[grammarKey]schema.Node{}}

// Grammar returns the compiled structural grammar for a supported version in
// strict or lax mode. Grammars are compiled on first use and cached.
func Grammar(v Version, strict bool) (schema.Node, error) {
	key := grammarKey{version: v, strict: strict}
	grammarCache.Lock()
	defer grammarCache.Unlock()
	if g, ok := grammarCache.m[key]; ok {
		return g, nil
	}
	g, err := compileGrammar(v, strict)
	if err != nil {
		return nil, err
	}
	grammarCache.compiles++
	grammarCache.m[key] = g
	return g, nil
}

// GrammarJSONSchema exports the grammar for v as a standalone JSON Schema
// document.
func GrammarJSONSchema(v Version, strict bool) (*js.Schema, error) {
	g, err := Grammar(v, strict)
	if err != nil {
		return nil, err
	}
	out := g.JSONSchema()
	out.SchemaURI = js.Draft
	if strict {
		out.ID = fmt.Sprintf("https://blert.io/schemas/bcf-%s-strict.schema.json", v)
		out.Title = fmt.Sprintf("Blert Chart Format (BCF) %s", v)
	} else {
		out.ID = fmt.Sprintf("https://blert.io/schemas/bcf-%d.x-lax.schema.json", v.Major)
		out.Title = fmt.Sprintf("Blert Chart Format (BCF) %d.x Lax", v.Major)
		out.Comment = fmt.Sprintf("Accepts any %d.x document; unknown properties and action types are allowed.", v.Major)
	}
	return out, nil
}

func compileGrammar(v Version, strict bool) (schema.Node, error) {
	switch v {
	case V1_0:
		return grammarV1(v, strict)
	}
	return nil, fmt.Errorf("bcf: no grammar for version %s", v)
}

// grammarV1 builds the 1.x grammar. The lax variant is derived from the
// strict one: every object accepts additional properties, the version field
// accepts any minor of the major, and actions with unrecognized types pass
// through.
func grammarV1(v Version, strict bool) (node schema.Node, err error) {
	defer func() {
		// Builders panic on programming errors in the grammar itself.
		if r := recover(); r != nil {
			node, err = nil, fmt.Errorf("bcf: building %s grammar: %v", v, r)
		}
	}()

	p := schema.UnknownStrict
	if !strict {
		p = schema.UnknownPassthrough
	}

	var version schema.Node = schema.Const(v.String())
	if !strict {
		version = schema.String().Pattern(fmt.Sprintf(`^%d\.\d+$`, v.Major))
	}

	tick := func() schema.Node { return integer(0) }
	id := func() schema.Node { return schema.String().Min(1) }
	url := func() schema.Node { return schema.String().Format("uri-reference") }

	definitions := schema.Object().Unknown(p).
		Field("attacks", url()).
		Field("spells", url()).
		Field("npcAttacks", url()).
		MustBuild()

	config := schema.Object().Unknown(p).
		Field("totalTicks", integer(1)).Required().
		Field("startTick", tick()).
		Field("endTick", tick()).
		Field("rowOrder", schema.Array(id())).
		Field("definitions", definitions).
		MustBuild()

	actor := schema.Union("type").
		Variant(string(ActorTypePlayer), schema.Object().Unknown(p).
			Field("type", schema.Const(string(ActorTypePlayer))).Required().
			Field("id", id()).Required().
			Field("name", schema.String()).Required().
			MustBuild()).
		Variant(string(ActorTypeNPC), schema.Object().Unknown(p).
			Field("type", schema.Const(string(ActorTypeNPC))).Required().
			Field("id", id()).Required().
			Field("name", schema.String()).Required().
			Field("npcId", integer(0)).Required().
			Field("spawnTick", tick()).
			Field("deathTick", tick()).
			MustBuild()).
		MustBuild()

	action := actionGrammarV1(v, p, strict, id)

	customState := schema.Object().Unknown(p).
		Field("label", schema.String()).Required().
		Field("fullText", schema.String()).
		Field("iconUrl", url()).
		MustBuild()

	state := schema.Object().Unknown(p).
		Field("isDead", schema.Bool()).
		Field("offCooldown", schema.Bool()).
		Field("specEnergy", schema.Integer().Min(0).Max(100)).
		Field("label", schema.String()).
		Field("customStates", schema.Array(customState)).
		MustBuild()

	cell := schema.Object().Unknown(p).
		Field("actorId", id()).Required().
		Field("actions", schema.Array(action)).
		Field("state", state).
		MustBuild()

	tickEntry := schema.Object().Unknown(p).
		Field("tick", tick()).Required().
		Field("cells", schema.Array(cell)).Required().
		MustBuild()

	phase := schema.Object().Unknown(p).
		Field("tick", tick()).Required().
		Field("phaseType", schema.String().Min(1)).Required().
		MustBuild()

	timeline := schema.Object().Unknown(p).
		Field("actors", schema.Array(actor)).Required().
		Field("ticks", schema.Array(tickEntry)).Required().
		Field("phases", schema.Array(phase)).
		MustBuild()

	split := schema.Object().Unknown(p).
		Field("tick", tick()).Required().
		Field("name", schema.String()).Required().
		Field("isImportant", schema.Bool()).
		MustBuild()

	backgroundColor := schema.Object().Unknown(p).
		Field("tick", tick()).Required().
		Field("length", integer(1)).
		Field("color", schema.String().Pattern(`^#([0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)).Required().
		Field("intensity", schema.Enum(string(IntensityLow), string(IntensityMedium), string(IntensityHigh))).
		Field("rowIds", schema.Array(id())).
		MustBuild()

	customRowCell := schema.Object().Unknown(p).
		Field("tick", tick()).Required().
		Field("iconUrl", url()).
		Field("label", schema.String().Min(1).Max(3)).
		Field("opacity", schema.Number().Min(0).Max(1)).
		MustBuild()

	customRow := schema.Object().Unknown(p).
		Field("id", id()).Required().
		Field("name", schema.String()).Required().
		Field("cells", schema.Array(customRowCell)).Required().
		MustBuild()

	augmentation := schema.Object().Unknown(p).
		Field("splits", schema.Array(split)).
		Field("backgroundColors", schema.Array(backgroundColor)).
		Field("customRows", schema.Array(customRow)).
		MustBuild()

	return schema.Object().Unknown(p).
		Describe(fmt.Sprintf("Blert Chart Format %s document", v)).
		Field("version", version).Required().
		Field("name", schema.String()).
		Field("description", schema.String()).
		Field("config", config).Required().
		Field("timeline", timeline).Required().
		Field("augmentation", augmentation).
		MustBuild(), nil
}

func actionGrammarV1(v Version, p schema.UnknownPolicy, strict bool, id func() schema.Node) schema.Node {
	url := schema.String().Format("uri-reference")
	tagged := func(t ActionType) schema.Node { return schema.Const(string(t)) }

	attackDisplay := schema.Object().Unknown(p).
		Field("iconUrl", url).
		Field("letter", schema.String().Min(1).Max(3)).
		Field("style", schema.Enum("melee", "ranged", "magic")).
		MustBuild()
	spellDisplay := schema.Object().Unknown(p).
		Field("iconUrl", url).
		Field("name", schema.String()).
		MustBuild()
	npcAttackDisplay := schema.Object().Unknown(p).
		Field("iconUrl", url).
		Field("description", schema.String()).
		MustBuild()

	variants := map[ActionType]schema.Node{
		ActionAttack: schema.Object().Unknown(p).
			Field("type", tagged(ActionAttack)).Required().
			Field("attackType", schema.String().Min(1)).Required().
			Field("weaponId", integer(0)).
			Field("weaponName", schema.String()).
			Field("targetActorId", id()).
			Field("distanceToTarget", integer(0)).
			Field("specCost", schema.Integer().Min(0).Max(100)).
			Field("display", attackDisplay).
			MustBuild(),
		ActionSpell: schema.Object().Unknown(p).
			Field("type", tagged(ActionSpell)).Required().
			Field("spellType", schema.String().Min(1)).Required().
			Field("targetActorId", id()).
			Field("display", spellDisplay).
			MustBuild(),
		ActionUtility: schema.Object().Unknown(p).
			Field("type", tagged(ActionUtility)).Required().
			Field("utilityType", schema.String().Min(1)).Required().
			Field("targetActorId", id()).
			Field("display", spellDisplay).
			MustBuild(),
		ActionDeath: schema.Object().Unknown(p).
			Field("type", tagged(ActionDeath)).Required().
			MustBuild(),
		ActionNPCAttack: schema.Object().Unknown(p).
			Field("type", tagged(ActionNPCAttack)).Required().
			Field("attackType", schema.String().Min(1)).Required().
			Field("targetActorId", id()).
			Field("display", npcAttackDisplay).
			MustBuild(),
		ActionNPCPhase: schema.Object().Unknown(p).
			Field("type", tagged(ActionNPCPhase)).Required().
			Field("phaseType", schema.String().Min(1)).Required().
			MustBuild(),
	}

	known := versionActionTypes[v].known()
	sort.Slice(known, func(i, j int) bool { return known[i] < known[j] })
	u := schema.Union("type")
	for _, t := range known {
		u.Variant(string(t), variants[t])
	}
	if !strict {
		u.Open(schema.Object().UnknownPassthrough().
			Field("type", schema.String().Min(1)).Required().
			MustBuild())
	}
	return u.MustBuild()
}
