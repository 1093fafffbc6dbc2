package pipeline

import (
	"strings"

	"ngc-ir/packages/compiler/src/output"
	constant "ngc-ir/packages/compiler/src/pool"
	"ngc-ir/packages/compiler/src/render3/r3_identifiers"
	"ngc-ir/packages/compiler/src/render3/view"
	"ngc-ir/packages/compiler/src/template/pipeline/ir"
	"ngc-ir/packages/compiler/src/template/pipeline/src/phases"
)

// QueryFlags is a set of flags to be used with Queries.
//
// NOTE: Ensure changes here are in sync with `packages/core/src/render3/interfaces/query.ts`
type QueryFlags int

const (
	// QueryFlagsNone - No flags
	QueryFlagsNone QueryFlags = 0b0000

	// QueryFlagsDescendants - Whether or not the query should descend into children.
	QueryFlagsDescendants QueryFlags = 0b0001

	// QueryFlagsIsStatic - The query can be computed statically and hence can be assigned eagerly.
	QueryFlagsIsStatic QueryFlags = 0b0010

	// QueryFlagsEmitDistinctChangesOnly - If the `QueryList` should fire change event only if actual change to query was computed
	QueryFlagsEmitDistinctChangesOnly QueryFlags = 0b0100
)

// ToQueryFlags translates query flags into the runtime `TQueryFlags`
func ToQueryFlags(query view.R3QueryMetadata) int {
	flags := QueryFlagsNone
	if query.Descendants {
		flags |= QueryFlagsDescendants
	}
	if query.Static {
		flags |= QueryFlagsIsStatic
	}
	if query.EmitDistinctChangesOnly {
		flags |= QueryFlagsEmitDistinctChangesOnly
	}
	return int(flags)
}

// GetQueryPredicate gets the query predicate expression. String selectors
// become a pooled array literal.
func GetQueryPredicate(query view.R3QueryMetadata, pool *constant.ConstantPool) output.OutputExpression {
	if query.PredicateType != nil {
		return query.PredicateType
	}
	var predicate []output.OutputExpression
	for _, selector := range query.PredicateSelectors {
		// Each item may contain comma-separated refs ('ref, ref1, ..., refN'),
		// stored as separate array entries.
		for _, part := range strings.Split(selector, ",") {
			predicate = append(predicate, output.Literal(strings.TrimSpace(part)))
		}
	}
	return pool.GetConstLiteral(output.LiteralArr(predicate...), true)
}

type queryTypeFns struct {
	signalBased *output.ExternalReference
	nonSignal   *output.ExternalReference
}

func createQueryCreateCall(query view.R3QueryMetadata, pool *constant.ConstantPool, fns queryTypeFns, prependParams ...output.OutputExpression) *output.InvokeFunctionExpr {
	parameters := append([]output.OutputExpression{}, prependParams...)
	createFn := fns.nonSignal
	if query.IsSignal {
		parameters = append(parameters, output.Prop(output.Variable(view.CONTEXT_NAME), query.PropertyName))
		createFn = fns.signalBased
	}
	parameters = append(parameters, GetQueryPredicate(query, pool), output.Literal(ToQueryFlags(query)))
	if query.Read != nil {
		parameters = append(parameters, query.Read)
	}
	return output.Call(output.ImportExpr(createFn), parameters...)
}

// queryUpdate is one entry of a query function's update block: a statement,
// or nil for a signal query that only advances the query index.
type queryUpdate = output.OutputStatement

// collapseAdvanceStatements turns runs of advance placeholders into a single
// `queryAdvance(n)` call.
//
//	bla();
//	queryAdvance();
//	queryAdvance();
//	bla();
//
// becomes
//
//	bla();
//	queryAdvance(2);
//	bla();
func collapseAdvanceStatements(statements []queryUpdate) []output.OutputStatement {
	var result []output.OutputStatement
	advanceCount := 0
	flush := func() {
		if advanceCount == 0 {
			return
		}
		var args []output.OutputExpression
		if advanceCount > 1 {
			args = append(args, output.Literal(advanceCount))
		}
		result = append(result, output.Stmt(output.Call(output.ImportExpr(r3_identifiers.QueryAdvance), args...)))
		advanceCount = 0
	}
	for _, st := range statements {
		if st == nil {
			advanceCount++
			continue
		}
		flush()
		result = append(result, st)
	}
	flush()
	return result
}

// queryRefresh builds `queryRefresh(_t = loadQuery()) && (ctx.prop = _t.first)`
func queryRefresh(query view.R3QueryMetadata, temporary *output.ReadVarExpr) output.OutputStatement {
	getQueryList := output.Call(output.ImportExpr(r3_identifiers.LoadQuery))
	refresh := output.Call(output.ImportExpr(r3_identifiers.QueryRefresh), output.Assign(temporary, getQueryList))
	var result output.OutputExpression = temporary
	if query.First {
		result = output.Prop(temporary, "first")
	}
	updateDirective := output.Assign(output.Prop(output.Variable(view.CONTEXT_NAME), query.PropertyName), result)
	return output.Stmt(output.Binary(output.BinaryOperatorAnd, refresh, updateDirective))
}

// CreateViewQueriesFunction defines and updates any view queries. Consecutive
// non-signal definitions are chained.
func CreateViewQueriesFunction(viewQueries []view.R3QueryMetadata, pool *constant.ConstantPool, name string) *output.FunctionExpr {
	create := ir.NewOpList()
	var updates []queryUpdate
	tempAllocator := view.TemporaryAllocator(func(st output.OutputStatement) { updates = append(updates, st) }, view.TEMPORARY_NAME)

	for _, query := range viewQueries {
		// e.g. viewQuery(somePredicate, true) or viewQuerySignal(ctx.prop, somePredicate, true)
		call := createQueryCreateCall(query, pool, queryTypeFns{
			signalBased: r3_identifiers.ViewQuerySignal,
			nonSignal:   r3_identifiers.ViewQuery,
		})
		create.Push(ir.NewStatementOp(output.Stmt(call)))

		// Signal queries update lazily and we just advance the index.
		if query.IsSignal {
			updates = append(updates, nil)
			continue
		}
		updates = append(updates, queryRefresh(query, tempAllocator()))
	}
	phases.ChainOperationsInList(create)

	fnName := ""
	if name != "" {
		fnName = name + "_Query"
	}
	return queryFunction(create, updates, fnName)
}

// CreateContentQueriesFunction defines and updates any content queries
func CreateContentQueriesFunction(queries []view.R3QueryMetadata, pool *constant.ConstantPool, name string) *output.FunctionExpr {
	create := ir.NewOpList()
	var updates []queryUpdate
	tempAllocator := view.TemporaryAllocator(func(st output.OutputStatement) { updates = append(updates, st) }, view.TEMPORARY_NAME)

	for _, query := range queries {
		// e.g. contentQuery(dirIndex, somePredicate, true) or
		//      contentQuerySignal(dirIndex, ctx.prop, somePredicate, <flags>, <read>)
		call := createQueryCreateCall(query, pool, queryTypeFns{
			signalBased: r3_identifiers.ContentQuerySignal,
			nonSignal:   r3_identifiers.ContentQuery,
		}, output.Variable("dirIndex"))
		create.Push(ir.NewStatementOp(output.Stmt(call)))

		if query.IsSignal {
			updates = append(updates, nil)
			continue
		}
		updates = append(updates, queryRefresh(query, tempAllocator()))
	}

	fnName := ""
	if name != "" {
		fnName = name + "_ContentQueries"
	}
	fn := queryFunction(create, updates, fnName)
	fn.Params = append(fn.Params, output.NewFnParam("dirIndex"))
	return fn
}

func queryFunction(create *ir.OpList, updates []queryUpdate, name string) *output.FunctionExpr {
	return output.Fn(output.Params(view.RENDER_FLAGS, view.CONTEXT_NAME), []output.OutputStatement{
		renderFlagCheckIfStmt(1, reifiedStatements(create, "create")),
		renderFlagCheckIfStmt(2, collapseAdvanceStatements(updates)),
	}, name)
}

// renderFlagCheckIfStmt creates `if (rf & flags) { .. }`
func renderFlagCheckIfStmt(flags int, statements []output.OutputStatement) *output.IfStmt {
	condition := output.Binary(output.BinaryOperatorBitwiseAnd, output.Variable(view.RENDER_FLAGS), output.Literal(flags))
	return output.NewIfStmt(condition, statements, nil, nil)
}
