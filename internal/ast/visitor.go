package ast

// Visitor implements one case per concrete node kind, following the
// double-dispatch convention every node's Accept method uses: the node
// picks its own VisitXxx, the visitor never type-switches.
type Visitor interface {
	VisitProgram(n *Program)
	VisitImportDecl(n *ImportDecl)
	VisitParameter(n *Parameter)
	VisitTypeParameterDecl(n *TypeParameterDecl)
	VisitFunctionDecl(n *FunctionDecl)
	VisitPropertyDecl(n *PropertyDecl)
	VisitClassDecl(n *ClassDecl)
	VisitInitBlock(n *InitBlock)
	VisitEnumCase(n *EnumCase)
	VisitEnumDecl(n *EnumDecl)

	VisitBlockStatement(n *BlockStatement)
	VisitExpressionStatement(n *ExpressionStatement)
	VisitLocalVarDecl(n *LocalVarDecl)
	VisitIfStmt(n *IfStmt)
	VisitForStmt(n *ForStmt)
	VisitWhileStmt(n *WhileStmt)
	VisitDoWhileStmt(n *DoWhileStmt)
	VisitReturnStmt(n *ReturnStmt)
	VisitBreakStmt(n *BreakStmt)
	VisitContinueStmt(n *ContinueStmt)
	VisitThrowStmt(n *ThrowStmt)
	VisitCatchClause(n *CatchClause)
	VisitTryStmt(n *TryStmt)

	VisitIdentifier(n *Identifier)
	VisitLiteral(n *Literal)
	VisitStringInterpolation(n *StringInterpolation)
	VisitCollectionLiteral(n *CollectionLiteral)
	VisitLambdaExpr(n *LambdaExpr)
	VisitCallExpr(n *CallExpr)
	VisitBinaryExpr(n *BinaryExpr)
	VisitUnaryExpr(n *UnaryExpr)
	VisitAssignExpr(n *AssignExpr)
	VisitIfExpr(n *IfExpr)
	VisitWhenBranch(n *WhenBranch)
	VisitWhenExpr(n *WhenExpr)
	VisitRangeExpr(n *RangeExpr)
	VisitElvisExpr(n *ElvisExpr)
	VisitSafeCallExpr(n *SafeCallExpr)
	VisitErrorPropagationExpr(n *ErrorPropagationExpr)
	VisitNotNullAssertExpr(n *NotNullAssertExpr)
	VisitMemberAccessExpr(n *MemberAccessExpr)
	VisitIndexExpr(n *IndexExpr)
	VisitTypeTestExpr(n *TypeTestExpr)
	VisitInExpr(n *InExpr)
	VisitThisExpr(n *ThisExpr)
	VisitSuperExpr(n *SuperExpr)
	VisitUseExpr(n *UseExpr)

	VisitSimpleTypeRef(n *SimpleTypeRef)
	VisitNullableTypeRef(n *NullableTypeRef)
	VisitFunctionTypeRef(n *FunctionTypeRef)

	VisitNamePattern(n *NamePattern)
	VisitTuplePattern(n *TuplePattern)
}

// BaseVisitor implements every Visitor method as a no-op; embed it to
// write a visitor that only overrides the handful of node kinds it
// actually cares about.
type BaseVisitor struct{}

func (BaseVisitor) VisitProgram(*Program)                               {}
func (BaseVisitor) VisitImportDecl(*ImportDecl)                         {}
func (BaseVisitor) VisitParameter(*Parameter)                           {}
func (BaseVisitor) VisitTypeParameterDecl(*TypeParameterDecl)           {}
func (BaseVisitor) VisitFunctionDecl(*FunctionDecl)                     {}
func (BaseVisitor) VisitPropertyDecl(*PropertyDecl)                     {}
func (BaseVisitor) VisitClassDecl(*ClassDecl)                           {}
func (BaseVisitor) VisitInitBlock(*InitBlock)                           {}
func (BaseVisitor) VisitEnumCase(*EnumCase)                             {}
func (BaseVisitor) VisitEnumDecl(*EnumDecl)                             {}
func (BaseVisitor) VisitBlockStatement(*BlockStatement)                 {}
func (BaseVisitor) VisitExpressionStatement(*ExpressionStatement)       {}
func (BaseVisitor) VisitLocalVarDecl(*LocalVarDecl)                     {}
func (BaseVisitor) VisitIfStmt(*IfStmt)                                 {}
func (BaseVisitor) VisitForStmt(*ForStmt)                               {}
func (BaseVisitor) VisitWhileStmt(*WhileStmt)                           {}
func (BaseVisitor) VisitDoWhileStmt(*DoWhileStmt)                       {}
func (BaseVisitor) VisitReturnStmt(*ReturnStmt)                         {}
func (BaseVisitor) VisitBreakStmt(*BreakStmt)                           {}
func (BaseVisitor) VisitContinueStmt(*ContinueStmt)                     {}
func (BaseVisitor) VisitThrowStmt(*ThrowStmt)                           {}
func (BaseVisitor) VisitCatchClause(*CatchClause)                       {}
func (BaseVisitor) VisitTryStmt(*TryStmt)                               {}
func (BaseVisitor) VisitIdentifier(*Identifier)                         {}
func (BaseVisitor) VisitLiteral(*Literal)                               {}
func (BaseVisitor) VisitStringInterpolation(*StringInterpolation)       {}
func (BaseVisitor) VisitCollectionLiteral(*CollectionLiteral)           {}
func (BaseVisitor) VisitLambdaExpr(*LambdaExpr)                         {}
func (BaseVisitor) VisitCallExpr(*CallExpr)                             {}
func (BaseVisitor) VisitBinaryExpr(*BinaryExpr)                         {}
func (BaseVisitor) VisitUnaryExpr(*UnaryExpr)                           {}
func (BaseVisitor) VisitAssignExpr(*AssignExpr)                         {}
func (BaseVisitor) VisitIfExpr(*IfExpr)                                 {}
func (BaseVisitor) VisitWhenBranch(*WhenBranch)                         {}
func (BaseVisitor) VisitWhenExpr(*WhenExpr)                             {}
func (BaseVisitor) VisitRangeExpr(*RangeExpr)                           {}
func (BaseVisitor) VisitElvisExpr(*ElvisExpr)                           {}
func (BaseVisitor) VisitSafeCallExpr(*SafeCallExpr)                     {}
func (BaseVisitor) VisitErrorPropagationExpr(*ErrorPropagationExpr)     {}
func (BaseVisitor) VisitNotNullAssertExpr(*NotNullAssertExpr)           {}
func (BaseVisitor) VisitMemberAccessExpr(*MemberAccessExpr)             {}
func (BaseVisitor) VisitIndexExpr(*IndexExpr)                           {}
func (BaseVisitor) VisitTypeTestExpr(*TypeTestExpr)                     {}
func (BaseVisitor) VisitInExpr(*InExpr)                                 {}
func (BaseVisitor) VisitThisExpr(*ThisExpr)                             {}
func (BaseVisitor) VisitSuperExpr(*SuperExpr)                           {}
func (BaseVisitor) VisitUseExpr(*UseExpr)                               {}
func (BaseVisitor) VisitSimpleTypeRef(*SimpleTypeRef)                   {}
func (BaseVisitor) VisitNullableTypeRef(*NullableTypeRef)               {}
func (BaseVisitor) VisitFunctionTypeRef(*FunctionTypeRef)               {}
func (BaseVisitor) VisitNamePattern(*NamePattern)                       {}
func (BaseVisitor) VisitTuplePattern(*TuplePattern)                     {}
