package interp_test

// This suite predates the project's move to testify and is kept on
// gopkg.in/check.v1, the same legacy dependency pongo2's own
// pongo2_issues_test.go carries for one regression suite.

import (
	"bytes"
	"testing"

	. "gopkg.in/check.v1"

	"github.com/daemonica-lang/altars/interp"
	"github.com/daemonica-lang/altars/lexer"
	"github.com/daemonica-lang/altars/parser"
)

func TestEvaluatorCheckSuite(t *testing.T) { TestingT(t) }

type EvaluatorSuite struct{}

var _ = Suite(&EvaluatorSuite{})

func (s *EvaluatorSuite) eval(c *C, src string) (string, error) {
	toks, err := lexer.Scan("<checksuite>", src)
	if err != nil {
		return "", err
	}
	program, err := parser.Parse("<checksuite>", toks)
	if err != nil {
		return "", err
	}
	var out bytes.Buffer
	cfg := interp.DefaultConfig()
	cfg.Stdout = &out
	it := interp.New(cfg, nil)
	if _, err := it.Run(program); err != nil {
		return "", err
	}
	return out.String(), nil
}

func (s *EvaluatorSuite) TestPrintStatement(c *C) {
	out, err := s.eval(c, `scribo "ritual complete";`)
	c.Assert(err, IsNil)
	c.Check(out, Equals, "ritual complete\n")
}

func (s *EvaluatorSuite) TestNestedBlocksShareTheFlatEnvironment(c *C) {
	out, err := s.eval(c, `
		ligamen a = 1;
		{
			ligamen b = 2;
			{
				scribo a + b;
			}
		}
	`)
	c.Assert(err, IsNil)
	c.Check(out, Equals, "3\n")
}

func (s *EvaluatorSuite) TestRecursiveFunction(c *C) {
	out, err := s.eval(c, `
		incantatio fact(n) {
			si (n <= 1) {
				beneficium 1;
			}
			beneficium n * fact(n - 1);
		}
		scribo fact(5);
	`)
	c.Assert(err, IsNil)
	c.Check(out, Equals, "120\n")
}
