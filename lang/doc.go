// Package lang implements a template engine over token trees.
//
// [Evaluate] walks a [token.Stream], copies ordinary tokens unchanged, and
// replaces every directive introduced by the sigil ($ by default) with its
// expansion. Directives bind names to items, substitute items, iterate
// collections, and conditionally emit blocks.
//
// # Directives
//
//	$name: value         bind name in the current scope
//	$(path)              emit the item at path
//	$len(path)           emit the number of elements of the item at path
//	$[path]{ body }      evaluate body once per element of the item at path
//	${ body }            evaluate body in a child scope
//	$first{ body }       emit body on the first iteration only
//	$last{ body }        emit body on the last iteration only
//	$!first{ body }      emit body on every iteration but the first
//	$!last{ body }       emit body on every iteration but the last
//	$concat_ident{ body }
//	$#{ body }           emit body joined into a single identifier
//	$$                   emit the sigil itself
//
// # Values
//
//	name                 identifier
//	"text" 42            literal
//	(a, b, c)            list
//	{ k: v, j: w }       map
//	{ { tokens } }       captured token stream
//	@(path) $(path)      the item at path
//	$...                 any other directive, expanded and parsed as the value
//
// # Paths
//
// A path is a dot-separated sequence of names, map keys, and list indexes,
// such as servers.0.host. Within an iteration body, @ or @value names the
// current element, @index its position and @key its map key (or position).
//
// # Scoping
//
// Every directive body opens a child scope; bindings made inside it are
// discarded when the body closes. Plain (), [] and {} groups do not open a
// scope. Lookup searches innermost to outermost.
package lang
