package loaders

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/df07/go-direct-raytracer/pkg/core"
)

// PBRTParam represents a parameter with type and value(s)
type PBRTParam struct {
	Type   string   // Parameter type (float, rgb, point3, etc.)
	Values []string // Parameter values as strings
}

// PBRTStatement represents a parsed PBRT directive with its parameter list
type PBRTStatement struct {
	Type       string               // Directive (Camera, Material, Shape, etc.)
	Subtype    string               // Subtype (perspective, diffuse, sphere, etc.)
	Parameters map[string]PBRTParam // Named parameters
}

// PBRTLookAt holds the arguments of a LookAt directive
type PBRTLookAt struct {
	Eye    core.Vec3
	Target core.Vec3
	Up     core.Vec3
}

// PBRTShape is a shape together with the graphics state active when it was declared
type PBRTShape struct {
	Statement   PBRTStatement
	Material    *PBRTStatement // Active material, nil if none was declared
	Translation core.Vec3      // Accumulated Translate offset
}

// PBRTLight is a light source together with the translation active when it was declared
type PBRTLight struct {
	Statement   PBRTStatement
	Translation core.Vec3
}

// PBRTScene contains all parsed PBRT scene data
type PBRTScene struct {
	// Pre-WorldBegin statements
	LookAt  *PBRTLookAt
	Camera  *PBRTStatement
	Film    *PBRTStatement
	Sampler *PBRTStatement

	// World content
	Shapes []PBRTShape
	Lights []PBRTLight

	// Directives that were recognized as syntax but have no meaning here
	Ignored []string
}

// graphicsState is the attribute state saved by AttributeBegin
type graphicsState struct {
	material    *PBRTStatement
	translation core.Vec3
}

// pbrtToken is a lexical token. Quoted tokens have their quotes removed.
type pbrtToken struct {
	text   string
	quoted bool
	line   int
}

// PBRTParser walks a token stream and tracks the graphics state
type PBRTParser struct {
	tokens     []pbrtToken
	pos        int
	scene      *PBRTScene
	state      graphicsState
	stateStack []graphicsState
	inWorld    bool
}

// LoadPBRT loads and parses a PBRT scene file
func LoadPBRT(filename string) (*PBRTScene, error) {
	if err := validateFilePath(filename); err != nil {
		return nil, err
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PBRT file: %v", err)
	}
	defer file.Close()

	return ParsePBRT(file)
}

// ParsePBRT parses PBRT content from an io.Reader
func ParsePBRT(reader io.Reader) (*PBRTScene, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("error reading input: %v", err)
	}

	tokens, err := tokenizePBRT(string(data))
	if err != nil {
		return nil, err
	}

	parser := newPBRTParser(tokens)
	for !parser.done() {
		if err := parser.parseDirective(); err != nil {
			return nil, err
		}
	}

	if len(parser.stateStack) > 0 {
		return nil, fmt.Errorf("missing AttributeEnd for %d AttributeBegin", len(parser.stateStack))
	}

	return parser.scene, nil
}

// newPBRTParser creates a parser over tokens
func newPBRTParser(tokens []pbrtToken) *PBRTParser {
	return &PBRTParser{
		tokens: tokens,
		scene: &PBRTScene{
			Shapes: make([]PBRTShape, 0),
			Lights: make([]PBRTLight, 0),
		},
	}
}

func (p *PBRTParser) done() bool {
	return p.pos >= len(p.tokens)
}

func (p *PBRTParser) peek() (pbrtToken, bool) {
	if p.done() {
		return pbrtToken{}, false
	}
	return p.tokens[p.pos], true
}

func (p *PBRTParser) next() pbrtToken {
	tok := p.tokens[p.pos]
	p.pos++
	return tok
}

// parseDirective consumes one directive and its arguments
func (p *PBRTParser) parseDirective() error {
	tok := p.next()
	if tok.quoted || !isDirective(tok.text) {
		return fmt.Errorf("line %d: expected directive, got %q", tok.line, tok.text)
	}

	switch tok.text {
	case "WorldBegin":
		p.inWorld = true
		p.state.translation = core.Vec3{}
		return nil
	case "WorldEnd":
		p.inWorld = false
		return nil
	case "AttributeBegin":
		p.stateStack = append(p.stateStack, p.state)
		return nil
	case "AttributeEnd":
		if len(p.stateStack) == 0 {
			return fmt.Errorf("line %d: AttributeEnd without AttributeBegin", tok.line)
		}
		p.state = p.stateStack[len(p.stateStack)-1]
		p.stateStack = p.stateStack[:len(p.stateStack)-1]
		return nil
	case "LookAt":
		values, err := p.readNumbers(tok, 9)
		if err != nil {
			return err
		}
		p.scene.LookAt = &PBRTLookAt{
			Eye:    core.NewVec3(values[0], values[1], values[2]),
			Target: core.NewVec3(values[3], values[4], values[5]),
			Up:     core.NewVec3(values[6], values[7], values[8]),
		}
		return nil
	case "Translate":
		values, err := p.readNumbers(tok, 3)
		if err != nil {
			return err
		}
		p.state.translation = p.state.translation.Add(core.NewVec3(values[0], values[1], values[2]))
		return nil
	}

	stmt, err := p.readStatement(tok)
	if err != nil {
		return err
	}

	// Positional arguments of unsupported directives (Rotate, Scale, ...)
	for {
		next, ok := p.peek()
		if !ok || next.quoted || isDirective(next.text) {
			break
		}
		p.next()
	}

	p.routeStatement(stmt)
	return nil
}

// routeStatement stores a statement in the scene according to the current state
func (p *PBRTParser) routeStatement(stmt *PBRTStatement) {
	if !p.inWorld {
		switch stmt.Type {
		case "Camera":
			p.scene.Camera = stmt
		case "Film":
			p.scene.Film = stmt
		case "Sampler":
			p.scene.Sampler = stmt
		default:
			p.scene.Ignored = append(p.scene.Ignored, stmt.Type)
		}
		return
	}

	switch stmt.Type {
	case "Material":
		p.state.material = stmt
	case "Shape":
		p.scene.Shapes = append(p.scene.Shapes, PBRTShape{
			Statement:   *stmt,
			Material:    p.state.material,
			Translation: p.state.translation,
		})
	case "LightSource":
		p.scene.Lights = append(p.scene.Lights, PBRTLight{
			Statement:   *stmt,
			Translation: p.state.translation,
		})
	default:
		p.scene.Ignored = append(p.scene.Ignored, stmt.Type)
	}
}

// readNumbers reads exactly count numeric arguments, optionally bracketed
func (p *PBRTParser) readNumbers(directive pbrtToken, count int) ([]float64, error) {
	bracketed := false
	if tok, ok := p.peek(); ok && !tok.quoted && tok.text == "[" {
		p.next()
		bracketed = true
	}

	values := make([]float64, 0, count)
	for len(values) < count {
		tok, ok := p.peek()
		if !ok || tok.quoted || !isNumber(tok.text) {
			return nil, fmt.Errorf("line %d: %s requires %d values", directive.line, directive.text, count)
		}
		p.next()
		v, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid %s value '%s': %v", tok.line, directive.text, tok.text, err)
		}
		values = append(values, v)
	}

	if bracketed {
		if tok, ok := p.peek(); !ok || tok.text != "]" {
			return nil, fmt.Errorf("line %d: %s has unterminated value list", directive.line, directive.text)
		}
		p.next()
	}
	return values, nil
}

// readStatement reads `Directive "subtype" "type name" value ...`
func (p *PBRTParser) readStatement(directive pbrtToken) (*PBRTStatement, error) {
	stmt := &PBRTStatement{
		Type:       directive.text,
		Parameters: make(map[string]PBRTParam),
	}

	if tok, ok := p.peek(); ok && tok.quoted {
		p.next()
		stmt.Subtype = tok.text
	}

	for {
		tok, ok := p.peek()
		if !ok || !tok.quoted {
			return stmt, nil
		}
		p.next()

		paramParts := strings.Fields(tok.text)
		if len(paramParts) != 2 {
			return nil, fmt.Errorf("line %d: invalid parameter declaration %q", tok.line, tok.text)
		}

		values, err := p.readParamValues(tok)
		if err != nil {
			return nil, err
		}

		stmt.Parameters[paramParts[1]] = PBRTParam{
			Type:   paramParts[0],
			Values: values,
		}
	}
}

// readParamValues reads either a single value or a bracketed list
func (p *PBRTParser) readParamValues(param pbrtToken) ([]string, error) {
	tok, ok := p.peek()
	if !ok {
		return nil, fmt.Errorf("line %d: parameter %q has no value", param.line, param.text)
	}

	if tok.quoted || tok.text != "[" {
		if !tok.quoted && !isNumber(tok.text) && tok.text != "true" && tok.text != "false" {
			return nil, fmt.Errorf("line %d: parameter %q has no value", param.line, param.text)
		}
		p.next()
		return []string{tok.text}, nil
	}

	p.next()
	var values []string
	for {
		tok, ok := p.peek()
		if !ok {
			return nil, fmt.Errorf("line %d: parameter %q has unterminated value list", param.line, param.text)
		}
		if !tok.quoted && isDirective(tok.text) {
			return nil, fmt.Errorf("line %d: parameter %q has unterminated value list", param.line, param.text)
		}
		p.next()
		if !tok.quoted && tok.text == "]" {
			return values, nil
		}
		values = append(values, tok.text)
	}
}

// tokenizePBRT splits PBRT source into tokens, dropping comments
func tokenizePBRT(input string) ([]pbrtToken, error) {
	var tokens []pbrtToken
	runes := []rune(input)
	line := 1

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\n':
			line++
		case unicode.IsSpace(r):
		case r == '#':
			for i+1 < len(runes) && runes[i+1] != '\n' {
				i++
			}
		case r == '[' || r == ']':
			tokens = append(tokens, pbrtToken{text: string(r), line: line})
		case r == '"':
			start := i + 1
			i++
			for i < len(runes) && runes[i] != '"' {
				if runes[i] == '\n' {
					return nil, fmt.Errorf("line %d: unterminated string", line)
				}
				i++
			}
			if i >= len(runes) {
				return nil, fmt.Errorf("line %d: unterminated string", line)
			}
			tokens = append(tokens, pbrtToken{text: string(runes[start:i]), quoted: true, line: line})
		default:
			start := i
			for i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) && !strings.ContainsRune(`"[]#`, runes[i+1]) {
				i++
			}
			tokens = append(tokens, pbrtToken{text: string(runes[start : i+1]), line: line})
		}
	}

	return tokens, nil
}

// isDirective reports whether an unquoted token names a directive
func isDirective(text string) bool {
	if text == "" {
		return false
	}
	return unicode.IsUpper([]rune(text)[0])
}

func isNumber(text string) bool {
	_, err := strconv.ParseFloat(text, 64)
	return err == nil
}

// validateFilePath validates a file path for security issues
func validateFilePath(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	if strings.Contains(filename, "\x00") {
		return fmt.Errorf("invalid file path: null bytes not allowed")
	}

	cleanPath := filepath.ToSlash(filepath.Clean(filename))

	// Only files under a scenes/ directory or the temp directory (for tests)
	if !strings.Contains(cleanPath, "scenes/") &&
		!strings.HasPrefix(cleanPath, filepath.ToSlash(os.TempDir())) {
		return fmt.Errorf("file path must be in scenes/ directory")
	}

	if !strings.HasSuffix(strings.ToLower(cleanPath), ".pbrt") {
		return fmt.Errorf("invalid file type: only .pbrt files are allowed")
	}

	if len(cleanPath) > 512 {
		return fmt.Errorf("file path too long: maximum 512 characters allowed")
	}

	return nil
}

// GetFloatParam extracts a float parameter from a PBRT statement
func (stmt *PBRTStatement) GetFloatParam(name string) (float64, bool) {
	param, exists := stmt.Parameters[name]
	if !exists || len(param.Values) == 0 {
		return 0, false
	}
	val, err := strconv.ParseFloat(param.Values[0], 64)
	if err != nil {
		return 0, false
	}
	return val, true
}

// GetRGBParam extracts an RGB color parameter from a PBRT statement
func (stmt *PBRTStatement) GetRGBParam(name string) (core.Color, bool) {
	values, ok := stmt.getFloat3(name)
	if !ok {
		return core.Color{}, false
	}
	return core.NewColor(values[0], values[1], values[2]), true
}

// GetPoint3Param extracts a point3 parameter from a PBRT statement
func (stmt *PBRTStatement) GetPoint3Param(name string) (core.Vec3, bool) {
	values, ok := stmt.getFloat3(name)
	if !ok {
		return core.Vec3{}, false
	}
	return core.NewVec3(values[0], values[1], values[2]), true
}

// GetStringParam extracts a string parameter from a PBRT statement
func (stmt *PBRTStatement) GetStringParam(name string) (string, bool) {
	param, exists := stmt.Parameters[name]
	if !exists || len(param.Values) == 0 {
		return "", false
	}
	return param.Values[0], true
}

func (stmt *PBRTStatement) getFloat3(name string) ([3]float64, bool) {
	var out [3]float64
	param, exists := stmt.Parameters[name]
	if !exists || len(param.Values) < 3 {
		return out, false
	}
	for i := range out {
		v, err := strconv.ParseFloat(param.Values[i], 64)
		if err != nil {
			return out, false
		}
		out[i] = v
	}
	return out, true
}
