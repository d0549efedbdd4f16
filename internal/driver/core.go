package driver

// coreSource is the small Clay-source "core" library spec.md §9 refers to
// when it says `add` (and friends) are "implemented in the core via
// primitive numericAdd" -- plain, unoverloaded procedures that forward to
// the closed primitive set, since the primitives themselves already
// dispatch on operand width/signedness at the Go level (spec.md §4.7).
// Not user-visible source: synthesized in memory and auto-imported into
// every loaded module, the same way __primitives__ is (spec.md §6).
const coreSource = `
add(a, b) { return numericAdd(a, b); }
subtract(a, b) { return numericSubtract(a, b); }
multiply(a, b) { return numericMultiply(a, b); }
divide(a, b) { return numericDivide(a, b); }
remainder(a, b) { return numericRemainder(a, b); }
notEquals?(a, b) { return boolNot(equals?(a, b)); }
lesser?(a, b) { return numericLesser(a, b); }
lesserEquals?(a, b) { return numericLesserEquals(a, b); }
greater?(a, b) { return numericGreater(a, b); }
greaterEquals?(a, b) { return numericGreaterEquals(a, b); }
plus(a) { return a; }
minus(a) { return numericNegate(a); }
bitAnd(a, b) { return bitwiseAnd(a, b); }
bitOr(a, b) { return bitwiseOr(a, b); }
bitXor(a, b) { return bitwiseXor(a, b); }
bitNot(a) { return bitwiseNot(a); }
`
