package hir

import (
	"sort"

	"github.com/graphqlintel/graphqlintel/internal/db"
	"github.com/graphqlintel/graphqlintel/internal/query"
	"github.com/graphqlintel/graphqlintel/internal/syntax"
	"github.com/graphqlintel/graphqlintel/internal/types"
)

// FileKey identifies a file within a specific registry — a registry
// pointer plus FileID, the same composite-key trick internal/syntax
// uses so that FileIDs from two different AnalysisHost instances never
// collide in a shared memo table (spec.md §3 invariant 5, "project
// isolation").
type FileKey struct {
	Registry *db.FileRegistry
	FileID   types.FileID
}

// FileKeyFor builds a FileKey for reg/fid, the constructor downstream
// packages (schema, analysis, lint, ide) use to call FileStructureOf.
func FileKeyFor(reg *db.FileRegistry, fid types.FileID) FileKey {
	return FileKey{Registry: reg, FileID: fid}
}

func fileStructureEqualAdapter(a, b FileStructure) bool { return a.Equal(b) }

func parseKeyFor(k FileKey) syntax.FileParseKey {
	return syntax.FileParseKey{Registry: k.Registry, FileID: k.FileID}
}

// FileStructureOf is the tracked `file_structure(file_id, content,
// metadata) → Arc<FileStructure>` query (spec.md §4.4).
var FileStructureOf = query.NewTracked(
	"file-structure",
	fileStructureEqualAdapter,
	func(ctx *query.Ctx, key FileKey) FileStructure {
		result := syntax.ParseFile.Get(ctx, parseKeyFor(key))
		return BuildFileStructure(key.FileID, result)
	},
)

// operationBodyKey keys operation_body by (file, index) — not by
// content — so editing an *earlier* operation in the same file never
// shifts a later operation's memo key (spec.md §4.4 "Keyed by index to
// avoid reordering sensitivity").
type operationBodyKey struct {
	Registry *db.FileRegistry
	FileID   types.FileID
	Index    int
}

// OperationBodyKeyFor builds the key OperationBodyOf is looked up by,
// the constructor downstream packages (lint, analysis, ide) use.
func OperationBodyKeyFor(reg *db.FileRegistry, fid types.FileID, index int) operationBodyKey {
	return operationBodyKey{Registry: reg, FileID: fid, Index: index}
}

var OperationBodyOf = query.NewTracked(
	"operation-body",
	operationBodyEqual,
	func(ctx *query.Ctx, key operationBodyKey) OperationBody {
		def, offset := findOperationDefinition(ctx, FileKey{Registry: key.Registry, FileID: key.FileID}, key.Index)
		if def == nil {
			return OperationBody{}
		}
		return buildOperationBody(def, offset)
	},
)

// fragmentBodyKey keys fragment_body by (file, name) — a file's
// fragments have unique names by construction (spec.md §4.4).
type fragmentBodyKey struct {
	Registry *db.FileRegistry
	FileID   types.FileID
	Name     string
}

// FragmentBodyKeyFor builds the key FragmentBodyOf is looked up by.
func FragmentBodyKeyFor(reg *db.FileRegistry, fid types.FileID, name string) fragmentBodyKey {
	return fragmentBodyKey{Registry: reg, FileID: fid, Name: name}
}

var FragmentBodyOf = query.NewTracked(
	"fragment-body",
	fragmentBodyEqual,
	func(ctx *query.Ctx, key fragmentBodyKey) FragmentBody {
		def, offset := findFragmentDefinition(ctx, FileKey{Registry: key.Registry, FileID: key.FileID}, key.Name)
		if def == nil {
			return FragmentBody{}
		}
		return buildFragmentBody(def, offset)
	},
)

// findOperationDefinition returns the index'th operation in fk plus the
// host-coordinate offset its block was parsed at (zero for plain files),
// the same offset BuildFileStructure applies to structural spans — body
// spans need the identical shift so a hosted file's diagnostics land
// inside the embedded block in host coordinates (spec.md §8 "Hosted-file
// diagnostics ... point at lines inside an extracted block").
func findOperationDefinition(ctx *query.Ctx, fk FileKey, index int) (*syntax.OperationDefinition, int) {
	result := syntax.ParseFile.Get(ctx, parseKeyFor(fk))
	i := 0
	for docIdx, pd := range result.Documents {
		for _, def := range pd.Document.Definitions {
			if op, ok := def.(*syntax.OperationDefinition); ok {
				if i == index {
					return op, hostOffsetFor(result, docIdx)
				}
				i++
			}
		}
	}
	return nil, 0
}

func findFragmentDefinition(ctx *query.Ctx, fk FileKey, name string) (*syntax.FragmentDefinition, int) {
	result := syntax.ParseFile.Get(ctx, parseKeyFor(fk))
	for docIdx, pd := range result.Documents {
		for _, def := range pd.Document.Definitions {
			if frag, ok := def.(*syntax.FragmentDefinition); ok && frag.Name.Name == name {
				return frag, hostOffsetFor(result, docIdx)
			}
		}
	}
	return nil, 0
}

// --- Project-wide aggregates (spec.md §3 "Aggregates") ---

// ProjectRef identifies a project: its file registry plus the
// ProjectFiles input cell holding current membership. Both are
// pointers, so ProjectRef is a cheap comparable key.
type ProjectRef struct {
	Registry *db.FileRegistry
	Project  *db.ProjectFilesInput
}

func typeDefMapEqual(a, b map[string]TypeDef) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		ov, ok := b[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// SchemaTypes is the tracked `schema_types : Map<Name → TypeDef>`
// aggregate, merged over all schema files (spec.md §3, §4.4). It
// depends on FileStructure of schema files only (invariant 3) — never
// on any executable file, which is what lets an executable-file body
// edit leave every schema-dependent query untouched.
var SchemaTypes = query.NewTracked(
	"schema-types",
	typeDefMapEqual,
	func(ctx *query.Ctx, ref ProjectRef) map[string]TypeDef {
		pf, ok := ref.Project.Get(ctx)
		if !ok {
			return map[string]TypeDef{}
		}
		types := make(map[string]TypeDef)
		for _, fid := range pf.SchemaFileIDs {
			fs := FileStructureOf.Get(ctx, FileKey{Registry: ref.Registry, FileID: fid})
			for _, td := range fs.TypeDefs {
				if _, exists := types[td.Name]; !exists {
					types[td.Name] = td
				}
			}
		}
		return types
	},
)

func fragmentMapEqual(a, b map[string]FragmentStructure) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		ov, ok := b[k]
		if !ok || !fragmentStructureEqual(v, ov) {
			return false
		}
	}
	return true
}

// AllFragments is the tracked `all_fragments : Map<Name →
// FragmentStructure>` aggregate over every executable file's
// FileStructure (spec.md §3).
var AllFragments = query.NewTracked(
	"all-fragments",
	fragmentMapEqual,
	func(ctx *query.Ctx, ref ProjectRef) map[string]FragmentStructure {
		pf, ok := ref.Project.Get(ctx)
		if !ok {
			return map[string]FragmentStructure{}
		}
		frags := make(map[string]FragmentStructure)
		for _, fid := range pf.ExecutableFileIDs {
			fs := FileStructureOf.Get(ctx, FileKey{Registry: ref.Registry, FileID: fid})
			for _, f := range fs.Fragments {
				frags[f.Name] = f
			}
		}
		return frags
	},
)

func operationSliceEqual(a, b []OperationStructure) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !operationStructureEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// AllOperations is the tracked `all_operations : Vec<OperationStructure>`
// aggregate over every executable file's FileStructure (spec.md §3).
var AllOperations = query.NewTracked(
	"all-operations",
	operationSliceEqual,
	func(ctx *query.Ctx, ref ProjectRef) []OperationStructure {
		pf, ok := ref.Project.Get(ctx)
		if !ok {
			return nil
		}
		var ops []OperationStructure
		// Stable order: by FileID then by in-file index, so the
		// aggregate's own value-equality is deterministic across
		// rebuilds (spec.md §8 "Idempotent rebuild").
		fids := append([]types.FileID{}, pf.ExecutableFileIDs...)
		sort.Slice(fids, func(i, j int) bool { return fids[i] < fids[j] })
		for _, fid := range fids {
			fs := FileStructureOf.Get(ctx, FileKey{Registry: ref.Registry, FileID: fid})
			ops = append(ops, fs.Operations...)
		}
		return ops
	},
)

func spreadsIndexEqual(a, b map[string][]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		ov, ok := b[k]
		if !ok || !stringSliceEqual(v, ov) {
			return false
		}
	}
	return true
}

// FragmentSpreadsIndex is the tracked `fragment_spreads_index :
// Map<FragmentName → Set<FragmentName>>` aggregate (direct spreads
// only; spec.md §3). It is built from every fragment's FragmentBody
// across the project's executable files.
var FragmentSpreadsIndex = query.NewTracked(
	"fragment-spreads-index",
	spreadsIndexEqual,
	func(ctx *query.Ctx, ref ProjectRef) map[string][]string {
		pf, ok := ref.Project.Get(ctx)
		if !ok {
			return map[string][]string{}
		}
		index := make(map[string][]string)
		for _, fid := range pf.ExecutableFileIDs {
			fs := FileStructureOf.Get(ctx, FileKey{Registry: ref.Registry, FileID: fid})
			for _, frag := range fs.Fragments {
				body := FragmentBodyOf.Get(ctx, fragmentBodyKey{Registry: ref.Registry, FileID: fid, Name: frag.Name})
				index[frag.Name] = body.FragmentSpreads
			}
		}
		return index
	},
)

// transitiveFragmentsKey keys operation_transitive_fragments by the
// operation's (file, index) plus the project it's resolved against —
// the same fragment name can mean different things (or be unresolved)
// in two different projects sharing a registry during a migration.
type transitiveFragmentsKey struct {
	Project ProjectRef
	FileID  types.FileID
	Index   int
}

func stringSetEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

// TransitiveFragmentsKeyFor builds the key OperationTransitiveFragments
// is looked up by.
func TransitiveFragmentsKeyFor(ref ProjectRef, fid types.FileID, index int) transitiveFragmentsKey {
	return transitiveFragmentsKey{Project: ref, FileID: fid, Index: index}
}

// OperationTransitiveFragments is the tracked BFS closure over
// fragment_spreads_index starting from one operation's direct spreads
// (spec.md §4.4 "operation_transitive_fragments").
var OperationTransitiveFragments = query.NewTracked(
	"operation-transitive-fragments",
	stringSetEqual,
	func(ctx *query.Ctx, key transitiveFragmentsKey) map[string]struct{} {
		body := OperationBodyOf.Get(ctx, operationBodyKey{Registry: key.Project.Registry, FileID: key.FileID, Index: key.Index})
		index := FragmentSpreadsIndex.Get(ctx, key.Project)

		visited := make(map[string]struct{})
		queue := append([]string{}, body.FragmentSpreads...)
		for len(queue) > 0 {
			name := queue[0]
			queue = queue[1:]
			if _, seen := visited[name]; seen {
				continue
			}
			visited[name] = struct{}{}
			queue = append(queue, index[name]...)
		}
		return visited
	},
)
