package hir

// Visitor implements one case per concrete HIR node kind, following the
// same double-dispatch convention as ast.Visitor : the node picks its own VisitXxx, the visitor
// never type-switches. Passes that only care about a handful of node
// kinds embed BaseVisitor and override those.
type Visitor interface {
	VisitProgram(n *Program)
	VisitFunction(n *Function)
	VisitProperty(n *Property)
	VisitInitBlock(n *InitBlock)
	VisitClass(n *Class)
	VisitEnumCase(n *EnumCase)
	VisitEnum(n *Enum)

	VisitBlock(n *Block)
	VisitExprStmt(n *ExprStmt)
	VisitLocalDecl(n *LocalDecl)
	VisitIf(n *If)
	VisitWhile(n *While)
	VisitDoWhile(n *DoWhile)
	VisitFor(n *For)
	VisitReturn(n *Return)
	VisitBreak(n *Break)
	VisitContinue(n *Continue)
	VisitThrow(n *Throw)
	VisitTry(n *Try)

	VisitIdentifier(n *Identifier)
	VisitLiteral(n *Literal)
	VisitLambda(n *Lambda)
	VisitCall(n *Call)
	VisitBinary(n *Binary)
	VisitUnary(n *Unary)
	VisitAssign(n *Assign)
	VisitWhen(n *When)
	VisitBlockExpr(n *BlockExpr)
	VisitCollectionLiteral(n *CollectionLiteral)
	VisitMemberAccess(n *MemberAccess)
	VisitIndexGet(n *IndexGet)
	VisitIndexSet(n *IndexSet)
	VisitNotNullAssert(n *NotNullAssert)
	VisitThis(n *This)
	VisitSuper(n *Super)
	VisitTypeTest(n *TypeTest)
	VisitIn(n *In)
}

// BaseVisitor implements every Visitor method as a no-op.
type BaseVisitor struct{}

func (BaseVisitor) VisitProgram(*Program)           {}
func (BaseVisitor) VisitFunction(*Function)         {}
func (BaseVisitor) VisitProperty(*Property)         {}
func (BaseVisitor) VisitInitBlock(*InitBlock)       {}
func (BaseVisitor) VisitClass(*Class)               {}
func (BaseVisitor) VisitEnumCase(*EnumCase)         {}
func (BaseVisitor) VisitEnum(*Enum)                 {}
func (BaseVisitor) VisitBlock(*Block)               {}
func (BaseVisitor) VisitExprStmt(*ExprStmt)         {}
func (BaseVisitor) VisitLocalDecl(*LocalDecl)       {}
func (BaseVisitor) VisitIf(*If)                     {}
func (BaseVisitor) VisitWhile(*While)               {}
func (BaseVisitor) VisitDoWhile(*DoWhile)           {}
func (BaseVisitor) VisitFor(*For)                   {}
func (BaseVisitor) VisitReturn(*Return)             {}
func (BaseVisitor) VisitBreak(*Break)               {}
func (BaseVisitor) VisitContinue(*Continue)         {}
func (BaseVisitor) VisitThrow(*Throw)               {}
func (BaseVisitor) VisitTry(*Try)                   {}
func (BaseVisitor) VisitIdentifier(*Identifier)     {}
func (BaseVisitor) VisitLiteral(*Literal)           {}
func (BaseVisitor) VisitLambda(*Lambda)             {}
func (BaseVisitor) VisitCall(*Call)                 {}
func (BaseVisitor) VisitBinary(*Binary)             {}
func (BaseVisitor) VisitUnary(*Unary)               {}
func (BaseVisitor) VisitAssign(*Assign)             {}
func (BaseVisitor) VisitWhen(*When)                 {}
func (BaseVisitor) VisitBlockExpr(*BlockExpr)       {}
func (BaseVisitor) VisitCollectionLiteral(*CollectionLiteral) {}
func (BaseVisitor) VisitMemberAccess(*MemberAccess) {}
func (BaseVisitor) VisitIndexGet(*IndexGet)         {}
func (BaseVisitor) VisitIndexSet(*IndexSet)         {}
func (BaseVisitor) VisitNotNullAssert(*NotNullAssert) {}
func (BaseVisitor) VisitThis(*This)                 {}
func (BaseVisitor) VisitSuper(*Super)               {}
func (BaseVisitor) VisitTypeTest(*TypeTest)         {}
func (BaseVisitor) VisitIn(*In)                     {}
