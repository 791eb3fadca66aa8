package statement_test

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/perbu/stmtree/pkg/condition"
	"github.com/perbu/stmtree/pkg/statement"
)

func call(name string) *statement.Statement {
	s := statement.New()
	s.AssembleCall(name)
	return s
}

func block(stmts ...*statement.Statement) *statement.Statement {
	b := statement.New()
	for _, s := range stmts {
		b.AddToBlock(b.LengthOfBlock(), s)
	}
	return b
}

func ifStmt(c condition.Condition, body *statement.Statement) *statement.Statement {
	s := statement.New()
	s.AssembleIf(c, body)
	return s
}

func whileStmt(c condition.Condition, body *statement.Statement) *statement.Statement {
	s := statement.New()
	s.AssembleWhile(c, body)
	return s
}

func ifElseStmt(c condition.Condition, then, els *statement.Statement) *statement.Statement {
	s := statement.New()
	s.AssembleIfElse(c, then, els)
	return s
}

func expectEmptyBlock(s *statement.Statement) {
	ExpectWithOffset(1, s.Kind()).To(Equal(statement.Block))
	ExpectWithOffset(1, s.LengthOfBlock()).To(Equal(0))
}

var contractViolation = BeAssignableToTypeOf(&statement.ContractError{})

var _ = Describe("Statement", func() {
	Describe("New", func() {
		It("should be an empty BLOCK", func() {
			expectEmptyBlock(statement.New())
		})

		It("should treat the zero value as an empty BLOCK", func() {
			var s statement.Statement
			expectEmptyBlock(&s)
		})
	})

	Describe("AddToBlock and RemoveFromBlock", func() {
		const n = 3

		for k := 0; k <= n; k++ {
			It(fmt.Sprintf("should insert and remove at position %d of %d", k, n), func() {
				p := block(call("a"), call("b"), call("c"))
				original := p.Clone()
				s := whileStmt(condition.NextIsWall, block(call("turnleft")))
				sCopy := s.Clone()

				p.AddToBlock(k, s)

				Expect(p.LengthOfBlock()).To(Equal(n + 1))
				expectEmptyBlock(s)

				removed := p.RemoveFromBlock(k)
				Expect(removed.Equal(sCopy)).To(BeTrue())
				Expect(p.LengthOfBlock()).To(Equal(n))
				Expect(p.Equal(original)).To(BeTrue())
			})
		}

		It("should keep the relative order of the other children", func() {
			p := block(call("a"), call("b"))
			p.AddToBlock(1, call("x"))

			Expect(p.String()).To(Equal("(BLOCK,?,?){(CALL,?,a),(CALL,?,x),(CALL,?,b)}"))

			first := p.RemoveFromBlock(0)
			Expect(first.DisassembleCall()).To(Equal("a"))
			Expect(p.String()).To(Equal("(BLOCK,?,?){(CALL,?,x),(CALL,?,b)}"))
		})

		It("should return a statement independent of the block", func() {
			p := block(call("a"))
			removed := p.RemoveFromBlock(0)
			removed.Clear()

			Expect(p.LengthOfBlock()).To(Equal(0))
			p.AddToBlock(0, call("b"))
			expectEmptyBlock(removed)
		})
	})

	Describe("IF", func() {
		DescribeTable("should round trip through assemble and disassemble",
			func(c condition.Condition, body func() *statement.Statement) {
				b := body()
				bCopy := b.Clone()
				s := statement.New()

				s.AssembleIf(c, b)
				Expect(s.Kind()).To(Equal(statement.If))
				expectEmptyBlock(b)

				out := statement.New()
				Expect(s.DisassembleIf(out)).To(Equal(c))
				Expect(out.Equal(bCopy)).To(BeTrue())
				expectEmptyBlock(s)
			},
			Entry("empty body", condition.NextIsEmpty, func() *statement.Statement { return statement.New() }),
			Entry("populated body", condition.Random, func() *statement.Statement {
				return block(call("move"), ifStmt(condition.True, block(call("skip"))))
			}),
		)

		It("should discard the previous content of the subject", func() {
			s := call("infect")
			s.AssembleIf(condition.NextIsEnemy, block(call("turnright")))

			Expect(s.String()).To(Equal("(IF,NEXT_IS_ENEMY,?){(BLOCK,?,?){(CALL,?,turnright)}}"))
		})

		It("should overwrite the disassembly target", func() {
			s := ifStmt(condition.True, block(call("move")))
			out := call("stale")

			s.DisassembleIf(out)
			Expect(out.String()).To(Equal("(BLOCK,?,?){(CALL,?,move)}"))
		})

		It("should round trip every condition", func() {
			for _, c := range condition.All() {
				s := ifStmt(c, statement.New())
				Expect(s.DisassembleIf(statement.New())).To(Equal(c))
			}
		})
	})

	Describe("IF_ELSE", func() {
		It("should keep then before else", func() {
			then := block(call("move"))
			els := block(call("turnleft"), call("turnleft"))
			thenCopy, elsCopy := then.Clone(), els.Clone()

			s := statement.New()
			s.AssembleIfElse(condition.NextIsEmpty, then, els)
			Expect(s.Kind()).To(Equal(statement.IfElse))
			expectEmptyBlock(then)
			expectEmptyBlock(els)

			out1, out2 := statement.New(), statement.New()
			Expect(s.DisassembleIfElse(out1, out2)).To(Equal(condition.NextIsEmpty))
			Expect(out1.Equal(thenCopy)).To(BeTrue())
			Expect(out2.Equal(elsCopy)).To(BeTrue())
			Expect(out1.Equal(out2)).To(BeFalse())
			expectEmptyBlock(s)
		})

		It("should reject the same block for both branches", func() {
			b := block(call("move"))
			s := statement.New()

			Expect(func() { s.AssembleIfElse(condition.True, b, b) }).To(PanicWith(contractViolation))
			expectEmptyBlock(s)
			Expect(b.LengthOfBlock()).To(Equal(1))
		})

		It("should reject the same target for both branches", func() {
			s := ifElseStmt(condition.True, block(call("a")), block(call("b")))
			before := s.String()
			out := statement.New()

			Expect(func() { s.DisassembleIfElse(out, out) }).To(PanicWith(contractViolation))
			Expect(s.String()).To(Equal(before))
		})
	})

	Describe("WHILE", func() {
		It("should round trip through assemble and disassemble", func() {
			body := block(call("move"), call("infect"))
			bodyCopy := body.Clone()

			s := statement.New()
			s.AssembleWhile(condition.NextIsNotWall, body)
			Expect(s.Kind()).To(Equal(statement.While))
			expectEmptyBlock(body)

			out := statement.New()
			Expect(s.DisassembleWhile(out)).To(Equal(condition.NextIsNotWall))
			Expect(out.Equal(bodyCopy)).To(BeTrue())
			expectEmptyBlock(s)
		})
	})

	Describe("CALL", func() {
		It("should round trip the instruction name", func() {
			s := statement.New()
			s.AssembleCall("foo")
			Expect(s.Kind()).To(Equal(statement.Call))
			Expect(s.Label().Instruction()).To(Equal("foo"))

			Expect(s.DisassembleCall()).To(Equal("foo"))
			expectEmptyBlock(s)
		})

		DescribeTable("should reject invalid instruction names",
			func(name string) {
				s := statement.New()
				Expect(func() { s.AssembleCall(name) }).To(PanicWith(contractViolation))
				expectEmptyBlock(s)
			},
			Entry("empty", ""),
			Entry("leading digit", "1move"),
			Entry("whitespace", "turn left"),
			Entry("underscore", "turn_left"),
		)
	})

	Describe("preconditions", func() {
		It("should reject adding a BLOCK to a block", func() {
			p := block(call("a"))
			inner := block(call("b"))
			before, innerBefore := p.String(), inner.String()

			Expect(func() { p.AddToBlock(0, inner) }).To(PanicWith(contractViolation))
			Expect(p.String()).To(Equal(before))
			Expect(inner.String()).To(Equal(innerBefore))
		})

		It("should reject adding a statement to itself", func() {
			p := statement.New()
			Expect(func() { p.AddToBlock(0, p) }).To(PanicWith(contractViolation))
			expectEmptyBlock(p)
		})

		It("should reject adding to a non-BLOCK", func() {
			s := call("move")
			Expect(func() { s.AddToBlock(0, call("b")) }).To(PanicWith(contractViolation))
			Expect(s.Kind()).To(Equal(statement.Call))
		})

		DescribeTable("should reject out of range positions",
			func(fn func(p *statement.Statement)) {
				p := block(call("a"), call("b"))
				before := p.String()
				Expect(func() { fn(p) }).To(PanicWith(contractViolation))
				Expect(p.String()).To(Equal(before))
			},
			Entry("add before start", func(p *statement.Statement) { p.AddToBlock(-1, call("x")) }),
			Entry("add past end", func(p *statement.Statement) { p.AddToBlock(3, call("x")) }),
			Entry("remove before start", func(p *statement.Statement) { p.RemoveFromBlock(-1) }),
			Entry("remove at length", func(p *statement.Statement) { p.RemoveFromBlock(2) }),
		)

		DescribeTable("should reject disassembling the wrong kind",
			func(s *statement.Statement, fn func(s *statement.Statement)) {
				before := s.String()
				Expect(func() { fn(s) }).To(PanicWith(contractViolation))
				Expect(s.String()).To(Equal(before))
			},
			Entry("IF from WHILE", whileStmt(condition.True, statement.New()),
				func(s *statement.Statement) { s.DisassembleIf(statement.New()) }),
			Entry("WHILE from IF", ifStmt(condition.True, statement.New()),
				func(s *statement.Statement) { s.DisassembleWhile(statement.New()) }),
			Entry("IF_ELSE from IF", ifStmt(condition.True, statement.New()),
				func(s *statement.Statement) { s.DisassembleIfElse(statement.New(), statement.New()) }),
			Entry("CALL from BLOCK", block(call("a")),
				func(s *statement.Statement) { s.DisassembleCall() }),
			Entry("length of CALL", call("a"),
				func(s *statement.Statement) { s.LengthOfBlock() }),
			Entry("remove from IF", ifStmt(condition.True, block(call("a"))),
				func(s *statement.Statement) { s.RemoveFromBlock(0) }),
		)

		It("should reject a non-BLOCK body", func() {
			s := statement.New()
			body := call("move")
			Expect(func() { s.AssembleIf(condition.True, body) }).To(PanicWith(contractViolation))
			Expect(func() { s.AssembleWhile(condition.True, body) }).To(PanicWith(contractViolation))
			Expect(body.Kind()).To(Equal(statement.Call))
			expectEmptyBlock(s)
		})

		It("should reject an invalid condition without consuming the body", func() {
			s := statement.New()
			body := block(call("move"))
			Expect(func() { s.AssembleWhile(condition.Condition(0), body) }).To(PanicWith(contractViolation))
			Expect(body.LengthOfBlock()).To(Equal(1))
		})

		It("should reject nil arguments", func() {
			s := statement.New()
			Expect(func() { s.AssembleIf(condition.True, nil) }).To(PanicWith(contractViolation))
			Expect(func() { s.AddToBlock(0, nil) }).To(PanicWith(contractViolation))
			Expect(func() { s.TransferFrom(nil) }).To(PanicWith(contractViolation))
		})

		It("should reject the subject as its own body", func() {
			s := statement.New()
			Expect(func() { s.AssembleIf(condition.True, s) }).To(PanicWith(contractViolation))
			Expect(func() { s.AssembleWhile(condition.True, s) }).To(PanicWith(contractViolation))
			Expect(func() { s.AssembleIfElse(condition.True, s, statement.New()) }).To(PanicWith(contractViolation))
			expectEmptyBlock(s)
		})

		It("should describe the violation", func() {
			defer func() {
				err, ok := recover().(*statement.ContractError)
				Expect(ok).To(BeTrue())
				Expect(err.Op).To(Equal("DisassembleCall"))
				Expect(err.Error()).To(ContainSubstring("[this is a CALL statement]"))
			}()
			statement.New().DisassembleCall()
		})
	})

	Describe("TransferFrom and Clear", func() {
		It("should move the whole tree and reset the source", func() {
			src := whileStmt(condition.True, block(call("move")))
			want := src.Clone()
			dst := call("old")

			dst.TransferFrom(src)
			Expect(dst.Equal(want)).To(BeTrue())
			expectEmptyBlock(src)
		})

		It("should reject transferring from itself", func() {
			s := call("move")
			Expect(func() { s.TransferFrom(s) }).To(PanicWith(contractViolation))
			Expect(s.Kind()).To(Equal(statement.Call))
		})

		It("should clear any kind back to an empty BLOCK", func() {
			for _, s := range []*statement.Statement{
				call("move"),
				block(call("a")),
				ifStmt(condition.True, statement.New()),
				ifElseStmt(condition.True, statement.New(), statement.New()),
				whileStmt(condition.True, statement.New()),
			} {
				s.Clear()
				expectEmptyBlock(s)
			}
		})
	})

	Describe("NewInstance", func() {
		It("should use the statement's factory", func() {
			created := 0
			var factory statement.Factory
			factory = func() *statement.Statement {
				created++
				return statement.NewWithFactory(factory)
			}

			p := factory()
			p.AddToBlock(0, call("a"))
			created = 0

			removed := p.RemoveFromBlock(0)
			Expect(created).To(Equal(1))
			Expect(removed.Kind()).To(Equal(statement.Call))

			removed.NewInstance()
			Expect(created).To(Equal(2))
		})

		It("should return a fresh empty BLOCK", func() {
			s := call("move")
			n := s.NewInstance()
			Expect(n).NotTo(BeIdenticalTo(s))
			expectEmptyBlock(n)
		})

		It("should reject a factory result that is not an empty BLOCK", func() {
			owned := statement.New()
			owned.AddToBlock(0, call("turnleft"))
			p := statement.NewWithFactory(func() *statement.Statement { return owned })
			p.AddToBlock(0, call("move"))

			Expect(func() { p.NewInstance() }).To(PanicWith(contractViolation))
			Expect(func() { p.RemoveFromBlock(0) }).To(PanicWith(contractViolation))
			Expect(p.String()).To(Equal("(BLOCK,?,?){(CALL,?,move)}"))
			Expect(owned.String()).To(Equal("(BLOCK,?,?){(CALL,?,turnleft)}"))
		})
	})
})
