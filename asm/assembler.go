// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/sim8085/cpu"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":    "0",
	"STACK_TOP": fmt.Sprintf("%#x", cpu.STACK_TOP),
}

// mnemonicMap maps an instruction with its register operands, in the form
// rendered by cpu.Op.String(), to the decoded instruction.
var mnemonicMap = map[string]cpu.Op{}

// mnemonicSet holds every instruction name.
var mnemonicSet = map[string]bool{}

func init() {
	for n := range 256 {
		op := cpu.Decode(uint8(n))
		if op.Kind == cpu.OP_UNIMPLEMENTED {
			continue
		}
		key := op.String()
		mnemonicMap[key] = op
		name, _, _ := strings.Cut(key, " ")
		mnemonicSet[name] = true
	}
}

var (
	symbolPattern = regexp.MustCompile(`^[A-Za-z_?@.][A-Za-z0-9_?@.]*$`)
	exprPattern   = regexp.MustCompile(`\$\([^\$]*\)`)
)

// Assembler is a single pass macro assembler for the 8085.
type Assembler struct {
	Verbose bool   // If set, verbosely logs the assembler actions.
	Origin  uint16 // Assembly address at the start of the source.
	Lines   []Line // List of assembled lines.

	predefine map[string]string   // Predefines
	Label     map[string]uint16   // Map of labels to addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.

	address   uint16 // Current assembly address.
	ended     bool   // Set by END.
	expansion int    // Macro expansion counter, for local labels.
	depth     int    // Current macro nesting depth.
}

// MACRO_DEPTH_MAX limits nested macro expansion.
const MACRO_DEPTH_MAX = 32

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// cutUnquoted splits text at the first sep outside of a quoted string.
func cutUnquoted(text string, sep byte) (before, after string, found bool, err error) {
	var quote byte
	for n := 0; n < len(text); n++ {
		c := text[n]
		switch {
		case quote != 0 && c == '\\':
			n++
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == sep:
			before, after, found = text[:n], text[n+1:], true
			return
		}
	}

	if quote != 0 {
		err = ErrStringUnterminated
		return
	}

	before = text
	return
}

// cutField splits off the first whitespace delimited field.
func cutField(text string) (head, rest string) {
	text = strings.TrimSpace(text)
	n := strings.IndexAny(text, " \t")
	if n < 0 {
		head = text
		return
	}
	head, rest = text[:n], strings.TrimSpace(text[n+1:])
	return
}

// splitOperands splits an operand field on commas.
func splitOperands(field string) (operands []string, err error) {
	field = strings.TrimSpace(field)
	for len(field) > 0 {
		before, after, found, cerr := cutUnquoted(field, ',')
		if cerr != nil {
			err = cerr
			return
		}
		operands = append(operands, strings.TrimSpace(before))
		if !found {
			break
		}
		field = strings.TrimSpace(after)
		if len(field) == 0 {
			// Trailing comma
			operands = append(operands, "")
		}
	}

	return
}

// isQuoted returns true if the word is a quoted string or character.
func isQuoted(word string) bool {
	return len(word) > 0 && (word[0] == '\'' || word[0] == '"')
}

// unquote returns the text of a quoted string, with escapes expanded.
func unquote(word string) (text string, err error) {
	quote := word[0]
	if len(word) < 2 || word[len(word)-1] != quote {
		err = ErrStringUnterminated
		return
	}

	body := word[1 : len(word)-1]
	var out []byte
	for n := 0; n < len(body); n++ {
		c := body[n]
		if c == '\\' && n+1 < len(body) {
			n++
			switch body[n] {
			case 'n':
				c = '\n'
			case 'r':
				c = '\r'
			case 't':
				c = '\t'
			case 'e':
				c = '\033'
			case '0':
				c = 0
			default:
				c = body[n]
			}
		}
		out = append(out, c)
	}

	text = string(out)
	return
}

// parseNumber parses a number in Intel (0FFH, 101B, 17O) or Go (0xff,
// 0b101, 0o17) notation. Plain digits are decimal.
func parseNumber(word string) (value int, err error) {
	text := strings.ToLower(word)
	digits := strings.TrimLeft(text, "+-")

	base := 10
	switch {
	case strings.HasSuffix(text, "h"):
		base = 16
		text = text[:len(text)-1]
	case strings.HasPrefix(digits, "0x"), strings.HasPrefix(digits, "0b"), strings.HasPrefix(digits, "0o"):
		base = 0
	case strings.HasSuffix(text, "b"):
		base = 2
		text = text[:len(text)-1]
	case strings.HasSuffix(text, "o"), strings.HasSuffix(text, "q"):
		base = 8
		text = text[:len(text)-1]
	}

	v64, perr := strconv.ParseInt(text, base, 32)
	if perr != nil {
		err = ErrParseNumber(word)
		return
	}

	value = int(v64)
	return
}

// inRange checks that a value fits in an operand of size bytes, signed or
// unsigned.
func inRange(value int, size int) bool {
	limit := 1 << (8 * size)
	return value >= -limit/2 && value < limit
}

// encode renders a value as size little endian bytes.
func encode(value int, size int) (data []uint8) {
	data = make([]uint8, size)
	for n := range data {
		data[n] = uint8(value >> (8 * n))
	}
	return
}

// equate expands a word through the equate table.
func (asm *Assembler) equate(word string) (text string, err error) {
	text = word
	for range 16 {
		value, ok := asm.Equate[text]
		if !ok {
			return
		}
		text = value
	}

	err = ErrEquateLoop
	return
}

// valueOf returns the value of a simple word. A symbol that is not yet
// defined is returned as a label to link after the pass.
func (asm *Assembler) valueOf(word string) (value int, label string, err error) {
	word, err = asm.equate(strings.TrimSpace(word))
	if err != nil {
		return
	}

	switch {
	case len(word) == 0:
		err = ErrOperandMissing
	case word == "$":
		value = int(asm.address)
	case isQuoted(word):
		var text string
		text, err = unquote(word)
		if err != nil {
			return
		}
		if len(text) != 1 {
			err = ErrParseNumber(word)
			return
		}
		value = int(text[0])
	case word[0] >= '0' && word[0] <= '9', word[0] == '-', word[0] == '+':
		value, err = parseNumber(word)
	case symbolPattern.MatchString(word):
		addr, ok := asm.Label[word]
		if ok {
			value = int(addr)
		} else {
			label = word
		}
	default:
		err = ErrParseValue(word)
	}

	return
}

// resolve returns the value of the single operand, which must not refer to
// a label that is not yet defined.
func (asm *Assembler) resolve(operands []string, size int) (value int, err error) {
	if len(operands) == 0 {
		err = ErrOperandMissing
		return
	}
	if len(operands) > 1 {
		err = ErrOperandExtra
		return
	}

	value, label, err := asm.valueOf(operands[0])
	if err != nil {
		return
	}
	if len(label) > 0 {
		err = ErrLabelMissing(label)
		return
	}
	if !inRange(value, size) {
		err = ErrOperandRange
		return
	}

	return
}

// operandBytes encodes a value operand of size bytes at offset in the
// line.
func (asm *Assembler) operandBytes(word string, size int, offset int) (data []uint8, links []Link, err error) {
	value, label, err := asm.valueOf(word)
	if err != nil {
		return
	}

	if len(label) > 0 {
		links = []Link{{Offset: offset, Size: size, Label: label}}
	} else if !inRange(value, size) {
		err = ErrOperandRange
		return
	}

	data = encode(value, size)
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key := range asm.Equate {
		v, label, verr := asm.valueOf(key)
		if verr != nil || len(label) > 0 {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt(v)
	}
	for key, addr := range asm.Label {
		pred[key] = starlark.MakeInt(int(addr))
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = int(st_int64)
	return
}

// defineLabel sets a label to the current address.
func (asm *Assembler) defineLabel(label string) (err error) {
	if !symbolPattern.MatchString(label) {
		err = ErrLabelInvalid
		return
	}

	_, ok := asm.Label[label]
	if ok {
		err = ErrLabelDuplicate
		return
	}

	if asm.Label == nil {
		asm.Label = make(map[string]uint16, 16)
	}
	asm.Label[label] = asm.address

	return
}

// defineEquate adds a new equate.
func (asm *Assembler) defineEquate(name string, value string) (err error) {
	value = strings.TrimSpace(value)
	if !symbolPattern.MatchString(name) || len(value) == 0 || strings.ContainsAny(value, " \t") {
		err = ErrEquateSyntax
		return
	}

	_, ok := asm.Equate[name]
	if ok {
		err = ErrEquateDuplicate
		return
	}

	if value == "$" {
		value = fmt.Sprintf("%#x", asm.address)
	}
	asm.Equate[name] = value

	return
}

// parseLine parses a single line into its mnemonic and operands.
// Labels, equates and macros are handled here.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	line = exprPattern.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	line = strings.TrimSpace(line)

	for {
		head, rest := cutField(line)
		if !strings.HasSuffix(head, ":") {
			break
		}
		err = asm.defineLabel(head[:len(head)-1])
		if err != nil {
			return
		}
		line = rest
	}

	if len(line) == 0 {
		return
	}

	head, rest := cutField(line)

	// .equ CONST VALUE
	if strings.EqualFold(head, ".equ") {
		fields := strings.Fields(rest)
		if len(fields) != 2 {
			err = ErrEquateSyntax
			return
		}
		err = asm.defineEquate(fields[0], fields[1])
		return
	}

	// CONST EQU VALUE
	if strings.EqualFold(head, "EQU") {
		err = ErrEquateSyntax
		return
	}
	next, value := cutField(rest)
	if strings.EqualFold(next, "EQU") {
		err = asm.defineEquate(head, value)
		return
	}

	operands, err := splitOperands(rest)
	if err != nil {
		return
	}

	// .macro processing
	macro, ok := asm.Macro[head]
	if ok {
		name := head

		if len(operands) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		if asm.depth >= MACRO_DEPTH_MAX {
			err = ErrMacroRecursion
			return
		}
		asm.depth++
		asm.expansion++
		local := fmt.Sprintf("%v_%v_", name, asm.expansion)
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = operands[n]
		}
		defer func() {
			asm.Equate = old_equate
			asm.depth--
		}()

		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", local)
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}

			err = asm.parseWords(words, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}
		}

		words = nil
		return
	}

	words = append([]string{head}, operands...)

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Lines = asm.Lines[:0]
	asm.address = asm.Origin
	asm.ended = false
	asm.expansion = 0
	asm.depth = 0
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for !asm.ended && scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		line, _, _, err = cutUnquoted(text, ';')
		if err != nil {
			return
		}
		line = strings.TrimSpace(line)
		words := strings.Fields(line)

		// .macro NAME arg...
		if len(words) > 0 && strings.EqualFold(words[0], ".macro") {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			macro.Args = strings.FieldsFunc(strings.Join(words[2:], " "), func(r rune) bool {
				return r == ' ' || r == ','
			})
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && strings.EqualFold(words[0], ".endm") {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of labels.
	for n := range asm.Lines {
		ln := &asm.Lines[n]
		for _, link := range ln.Links {
			addr, ok := asm.Label[link.Label]
			if !ok {
				lineno = ln.LineNo
				line = strings.Join(ln.Words, " ")
				err = ErrLabelMissing(link.Label)
				return
			}
			if !inRange(int(addr), link.Size) {
				lineno = ln.LineNo
				line = strings.Join(ln.Words, " ")
				err = ErrOperandRange
				return
			}
			copy(ln.Bytes[link.Offset:], encode(int(addr), link.Size))
		}
	}

	prog = &Program{
		Lines:  slices.Clone(asm.Lines),
		Labels: maps.Clone(asm.Label),
	}

	return
}

// opKey renders a mnemonic and register operands as a mnemonicMap key.
func opKey(mnemonic string, fields []string) string {
	if len(fields) == 0 {
		return mnemonic
	}
	return mnemonic + " " + strings.Join(fields, ",")
}

// instruction encodes a machine instruction.
func (asm *Assembler) instruction(mnemonic string, operands []string) (data []uint8, links []Link, err error) {
	if !mnemonicSet[mnemonic] {
		err = ErrInstructionInvalid
		return
	}

	fields := make([]string, len(operands))
	for n, operand := range operands {
		fields[n], err = asm.equate(operand)
		if err != nil {
			return
		}
		fields[n] = strings.ToUpper(fields[n])
	}

	// All operands are register fields.
	op, ok := mnemonicMap[opKey(mnemonic, fields)]
	if ok {
		if op.Immediates() > 0 {
			err = ErrOperandMissing
			return
		}
		data = []uint8{op.Opcode}
		return
	}

	if len(fields) == 0 {
		err = ErrOperandMissing
		return
	}

	// The last operand is an immediate value.
	last := len(fields) - 1
	op, ok = mnemonicMap[opKey(mnemonic, fields[:last])]
	switch {
	case !ok:
		err = ErrOperandInvalid
	case op.Immediates() == 0:
		err = ErrOperandExtra
	}
	if err != nil {
		return
	}

	imm, links, err := asm.operandBytes(operands[last], op.Immediates(), 1)
	if err != nil {
		return
	}
	data = append([]uint8{op.Opcode}, imm...)

	return
}

// parseWords assembles the mnemonic and operands of a line.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	// no-op
	if len(words) == 0 {
		return
	}

	var data []uint8
	var links []Link

	mnemonic := strings.ToUpper(words[0])
	operands := words[1:]

	switch mnemonic {
	case "ORG":
		var value int
		value, err = asm.resolve(operands, 2)
		if err != nil {
			return
		}
		asm.address = uint16(value)
		return
	case "END":
		if len(operands) > 0 {
			err = ErrOperandExtra
			return
		}
		asm.ended = true
		return
	case "DS":
		var count int
		count, err = asm.resolve(operands, 2)
		if err != nil {
			return
		}
		if count < 0 {
			err = ErrOperandRange
			return
		}
		asm.Lines = append(asm.Lines, Line{LineNo: lineno, Address: asm.address, Words: words})
		asm.address += uint16(count)
		return
	case "DB", "DW":
		size := 1
		if mnemonic == "DW" {
			size = 2
		}
		if len(operands) == 0 {
			err = ErrOperandMissing
			return
		}
		for _, operand := range operands {
			if size == 1 && isQuoted(operand) {
				var text string
				text, err = unquote(operand)
				if err != nil {
					return
				}
				if len(text) != 1 {
					data = append(data, text...)
					continue
				}
			}
			var value []uint8
			var link []Link
			value, link, err = asm.operandBytes(operand, size, len(data))
			if err != nil {
				return
			}
			data = append(data, value...)
			links = append(links, link...)
		}
	default:
		data, links, err = asm.instruction(mnemonic, operands)
		if err != nil {
			return
		}
	}

	if asm.Verbose {
		log.Printf("%04X: % X\t%v\n", asm.address, data, strings.Join(words, " "))
	}

	asm.Lines = append(asm.Lines, Line{
		LineNo:  lineno,
		Address: asm.address,
		Words:   words,
		Bytes:   data,
		Links:   links,
	})
	asm.address += uint16(len(data))

	return
}
