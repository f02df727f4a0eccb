package ir

import (
	"fmt"

	"github.com/oxhq/east/text"
	"github.com/oxhq/east/types"
	"github.com/oxhq/east/value"
)

func caseType(tag string) *types.Type {
	for _, c := range descriptor.Body.Cases {
		if c.Tag == tag {
			return c.Type
		}
	}
	panic("ir: unknown descriptor case " + tag)
}

func mustStruct(tag string, fields map[string]value.Value) value.Value {
	s, err := value.NewStruct(caseType(tag), fields)
	if err != nil {
		panic("ir: " + err.Error())
	}
	return &value.Variant{Type: descriptor.Body, Tag: tag, Val: s}
}

func locValue(l Location) value.Value {
	s, _ := value.NewStruct(locShape(), map[string]value.Value{
		"file": value.String(l.File),
		"line": value.Int(int64(l.Line)),
		"col":  value.Int(int64(l.Col)),
	})
	return s
}

func locFromValue(v value.Value) Location {
	s := v.(*value.Struct)
	file, _ := value.AsString(s.Fields["file"])
	line, _ := value.AsInt(s.Fields["line"])
	col, _ := value.AsInt(s.Fields["col"])
	return Location{File: file, Line: int(line), Col: int(col)}
}

func labelValue(l Label) value.Value {
	s, _ := value.NewStruct(labelShape(), map[string]value.Value{
		"name": value.String(l.Name),
		"loc":  locValue(l.Loc),
	})
	return s
}

func labelFromValue(v value.Value) Label {
	s := v.(*value.Struct)
	name, _ := value.AsString(s.Fields["name"])
	return Label{Name: name, Loc: locFromValue(s.Fields["loc"])}
}

func paramValue(p Param) value.Value {
	s, _ := value.NewStruct(paramShape(), map[string]value.Value{
		"name":    value.String(p.Name),
		"type":    value.DescribeType(p.Type),
		"mutable": value.Bool(p.Mutable),
	})
	return s
}

func paramFromValue(v value.Value) (Param, error) {
	s := v.(*value.Struct)
	name, _ := value.AsString(s.Fields["name"])
	mutable, _ := value.AsBool(s.Fields["mutable"])
	t, err := value.UndescribeType(s.Fields["type"])
	if err != nil {
		return Param{}, err
	}
	return Param{Name: name, Type: t, Mutable: mutable}, nil
}

func nodeArray(ns []Node) value.Value {
	vals := make([]value.Value, len(ns))
	for i, n := range ns {
		vals[i] = ToValue(n)
	}
	return value.NewArray(descriptor, vals)
}

func nodesFromValue(v value.Value) ([]Node, error) {
	a := v.(*value.Array)
	out := make([]Node, len(a.Vals))
	for i, e := range a.Vals {
		n, err := FromValue(e)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func optionalValue(n Node) value.Value {
	if n == nil {
		return value.NewArray(descriptor, nil)
	}
	return value.NewArray(descriptor, []value.Value{ToValue(n)})
}

func optionalFromValue(v value.Value) (Node, error) {
	a := v.(*value.Array)
	if len(a.Vals) == 0 {
		return nil, nil
	}
	return FromValue(a.Vals[0])
}

// ToValue converts a Go-native IR node into its generic value.Value form
// (a Variant over Descriptor()), so text.Print/ejson.Encode can serialize
// it without any IR-specific codec code.
func ToValue(n Node) value.Value {
	switch t := n.(type) {
	case *Error:
		return mustStruct("Error", map[string]value.Value{
			"type": value.DescribeType(t.Type), "loc": locValue(t.Loc),
			"message": value.String(t.Message),
		})
	case *TryCatch:
		return mustStruct("TryCatch", map[string]value.Value{
			"type": value.DescribeType(t.Type), "loc": locValue(t.Loc),
			"try": ToValue(t.Try), "catchVar": value.String(t.CatchVar), "catch": ToValue(t.Catch),
		})
	case *Value:
		lit, err := text.Print(t.Val, t.Type)
		if err != nil {
			panic("ir: literal value does not print: " + err.Error())
		}
		return mustStruct("Value", map[string]value.Value{
			"type": value.DescribeType(t.Type), "loc": locValue(t.Loc),
			"literal": value.String(lit),
		})
	case *Variable:
		return mustStruct("Variable", map[string]value.Value{
			"type": value.DescribeType(t.Type), "loc": locValue(t.Loc),
			"name": value.String(t.Name), "index": value.Int(int64(t.Index)),
		})
	case *Let:
		return mustStruct("Let", map[string]value.Value{
			"type": value.DescribeType(t.Type), "loc": locValue(t.Loc),
			"name": value.String(t.Name), "mutable": value.Bool(t.Mutable),
			"init": ToValue(t.Init), "index": value.Int(int64(t.Index)),
		})
	case *Assign:
		return mustStruct("Assign", map[string]value.Value{
			"type": value.DescribeType(t.Type), "loc": locValue(t.Loc),
			"target": value.String(t.Target), "value": ToValue(t.Value),
		})
	case *As:
		return mustStruct("As", map[string]value.Value{
			"type": value.DescribeType(t.Type), "loc": locValue(t.Loc),
			"inner": ToValue(t.Inner),
		})
	case *Function:
		params := make([]value.Value, len(t.Params))
		for i, p := range t.Params {
			params[i] = paramValue(p)
		}
		captures := make([]value.Value, len(t.Captures))
		for i, c := range t.Captures {
			captures[i] = value.String(c)
		}
		return mustStruct("Function", map[string]value.Value{
			"type": value.DescribeType(t.Type), "loc": locValue(t.Loc),
			"params":   value.NewArray(paramShape(), params),
			"body":     ToValue(t.Body),
			"captures": value.NewArray(types.NewString(), captures),
		})
	case *AsyncFunction:
		params := make([]value.Value, len(t.Params))
		for i, p := range t.Params {
			params[i] = paramValue(p)
		}
		captures := make([]value.Value, len(t.Captures))
		for i, c := range t.Captures {
			captures[i] = value.String(c)
		}
		return mustStruct("AsyncFunction", map[string]value.Value{
			"type": value.DescribeType(t.Type), "loc": locValue(t.Loc),
			"params":   value.NewArray(paramShape(), params),
			"body":     ToValue(t.Body),
			"captures": value.NewArray(types.NewString(), captures),
		})
	case *Call:
		return mustStruct("Call", map[string]value.Value{
			"type": value.DescribeType(t.Type), "loc": locValue(t.Loc),
			"callee": ToValue(t.Callee), "args": nodeArray(t.Args),
		})
	case *CallAsync:
		return mustStruct("CallAsync", map[string]value.Value{
			"type": value.DescribeType(t.Type), "loc": locValue(t.Loc),
			"callee": ToValue(t.Callee), "args": nodeArray(t.Args),
		})
	case *NewRef:
		return mustStruct("NewRef", map[string]value.Value{
			"type": value.DescribeType(t.Type), "loc": locValue(t.Loc),
			"init": ToValue(t.Init),
		})
	case *NewArray:
		return mustStruct("NewArray", map[string]value.Value{
			"type": value.DescribeType(t.Type), "loc": locValue(t.Loc),
			"elems": nodeArray(t.Elems),
		})
	case *NewSet:
		return mustStruct("NewSet", map[string]value.Value{
			"type": value.DescribeType(t.Type), "loc": locValue(t.Loc),
			"elems": nodeArray(t.Elems),
		})
	case *NewDict:
		entryShape := types.NewStruct(types.Field{Name: "key", Type: descriptor}, types.Field{Name: "value", Type: descriptor})
		vals := make([]value.Value, len(t.Entries))
		for i, e := range t.Entries {
			s, _ := value.NewStruct(entryShape, map[string]value.Value{"key": ToValue(e.Key), "value": ToValue(e.Value)})
			vals[i] = s
		}
		return mustStruct("NewDict", map[string]value.Value{
			"type": value.DescribeType(t.Type), "loc": locValue(t.Loc),
			"entries": value.NewArray(entryShape, vals),
		})
	case *Struct:
		fieldShape := types.NewStruct(types.Field{Name: "name", Type: types.NewString()}, types.Field{Name: "value", Type: descriptor})
		vals := make([]value.Value, len(t.Fields))
		for i, f := range t.Fields {
			s, _ := value.NewStruct(fieldShape, map[string]value.Value{"name": value.String(f.Name), "value": ToValue(f.Value)})
			vals[i] = s
		}
		return mustStruct("Struct", map[string]value.Value{
			"type": value.DescribeType(t.Type), "loc": locValue(t.Loc),
			"fields": value.NewArray(fieldShape, vals),
		})
	case *GetField:
		return mustStruct("GetField", map[string]value.Value{
			"type": value.DescribeType(t.Type), "loc": locValue(t.Loc),
			"target": ToValue(t.Target), "field": value.String(t.Field),
		})
	case *Variant:
		return mustStruct("Variant", map[string]value.Value{
			"type": value.DescribeType(t.Type), "loc": locValue(t.Loc),
			"tag": value.String(t.Tag), "value": ToValue(t.Value),
		})
	case *Block:
		return mustStruct("Block", map[string]value.Value{
			"type": value.DescribeType(t.Type), "loc": locValue(t.Loc),
			"stmts": nodeArray(t.Stmts),
		})
	case *IfElse:
		return mustStruct("IfElse", map[string]value.Value{
			"type": value.DescribeType(t.Type), "loc": locValue(t.Loc),
			"cond": ToValue(t.Cond), "then": ToValue(t.Then), "else": optionalValue(t.Else),
		})
	case *Match:
		caseShape := types.NewStruct(
			types.Field{Name: "tag", Type: types.NewString()},
			types.Field{Name: "bind", Type: types.NewString()},
			types.Field{Name: "body", Type: descriptor},
		)
		vals := make([]value.Value, len(t.Cases))
		for i, c := range t.Cases {
			s, _ := value.NewStruct(caseShape, map[string]value.Value{
				"tag": value.String(c.Tag), "bind": value.String(c.Bind), "body": ToValue(c.Body),
			})
			vals[i] = s
		}
		return mustStruct("Match", map[string]value.Value{
			"type": value.DescribeType(t.Type), "loc": locValue(t.Loc),
			"subject": ToValue(t.Subject), "cases": value.NewArray(caseShape, vals),
		})
	case *UnwrapRecursive:
		return mustStruct("UnwrapRecursive", map[string]value.Value{
			"type": value.DescribeType(t.Type), "loc": locValue(t.Loc),
			"inner": ToValue(t.Inner),
		})
	case *WrapRecursive:
		return mustStruct("WrapRecursive", map[string]value.Value{
			"type": value.DescribeType(t.Type), "loc": locValue(t.Loc),
			"inner": ToValue(t.Inner),
		})
	case *While:
		return mustStruct("While", map[string]value.Value{
			"type": value.DescribeType(t.Type), "loc": locValue(t.Loc),
			"label": labelValue(t.Label), "cond": ToValue(t.Cond), "body": ToValue(t.Body),
		})
	case *ForArray:
		return mustStruct("ForArray", map[string]value.Value{
			"type": value.DescribeType(t.Type), "loc": locValue(t.Loc),
			"label": labelValue(t.Label), "iterable": ToValue(t.Iterable),
			"elemName": value.String(t.ElemName), "body": ToValue(t.Body),
		})
	case *ForSet:
		return mustStruct("ForSet", map[string]value.Value{
			"type": value.DescribeType(t.Type), "loc": locValue(t.Loc),
			"label": labelValue(t.Label), "iterable": ToValue(t.Iterable),
			"elemName": value.String(t.ElemName), "body": ToValue(t.Body),
		})
	case *ForDict:
		return mustStruct("ForDict", map[string]value.Value{
			"type": value.DescribeType(t.Type), "loc": locValue(t.Loc),
			"label": labelValue(t.Label), "iterable": ToValue(t.Iterable),
			"keyName": value.String(t.KeyName), "valueName": value.String(t.ValueName), "body": ToValue(t.Body),
		})
	case *Return:
		return mustStruct("Return", map[string]value.Value{
			"type": value.DescribeType(t.Type), "loc": locValue(t.Loc),
			"value": optionalValue(t.Value),
		})
	case *Continue:
		return mustStruct("Continue", map[string]value.Value{
			"type": value.DescribeType(t.Type), "loc": locValue(t.Loc),
			"target": labelValue(*t.Target),
		})
	case *Break:
		return mustStruct("Break", map[string]value.Value{
			"type": value.DescribeType(t.Type), "loc": locValue(t.Loc),
			"target": labelValue(*t.Target),
		})
	case *Builtin:
		return mustStruct("Builtin", map[string]value.Value{
			"type": value.DescribeType(t.Type), "loc": locValue(t.Loc),
			"name": value.String(t.Name), "args": nodeArray(t.Args),
		})
	case *Platform:
		return mustStruct("Platform", map[string]value.Value{
			"type": value.DescribeType(t.Type), "loc": locValue(t.Loc),
			"name": value.String(t.Name), "args": nodeArray(t.Args),
		})
	default:
		panic(fmt.Sprintf("ir: ToValue: unhandled node type %T", n))
	}
}

// FromValue is the inverse of ToValue. Break/Continue targets are rebuilt
// as fresh *Label values carrying the stored name and location; they are
// not pointers to the enclosing loop's own Label, so label identity does
// not survive the round trip.
func FromValue(v value.Value) (Node, error) {
	vv, ok := v.(*value.Variant)
	if !ok {
		return nil, fmt.Errorf("ir: expected a node variant, got %T", v)
	}
	s, ok := vv.Val.(*value.Struct)
	if !ok {
		return nil, fmt.Errorf("ir: node payload is not a struct")
	}
	t, err := value.UndescribeType(s.Fields["type"])
	if err != nil {
		return nil, err
	}
	loc := locFromValue(s.Fields["loc"])
	b := base{Type: t, Loc: loc}

	child := func(name string) (Node, error) { return FromValue(s.Fields[name]) }

	switch vv.Tag {
	case "Error":
		msg, _ := value.AsString(s.Fields["message"])
		return &Error{base: b, Message: msg}, nil
	case "TryCatch":
		try, err := child("try")
		if err != nil {
			return nil, err
		}
		catch, err := child("catch")
		if err != nil {
			return nil, err
		}
		cv, _ := value.AsString(s.Fields["catchVar"])
		return &TryCatch{base: b, Try: try, CatchVar: cv, Catch: catch}, nil
	case "Value":
		lit, _ := value.AsString(s.Fields["literal"])
		val, perr := text.Parse(lit, t)
		if perr != nil {
			return nil, perr
		}
		return &Value{base: b, Val: val}, nil
	case "Variable":
		name, _ := value.AsString(s.Fields["name"])
		idx, _ := value.AsInt(s.Fields["index"])
		return &Variable{base: b, Name: name, Index: int(idx)}, nil
	case "Let":
		name, _ := value.AsString(s.Fields["name"])
		mutable, _ := value.AsBool(s.Fields["mutable"])
		idx, _ := value.AsInt(s.Fields["index"])
		init, err := child("init")
		if err != nil {
			return nil, err
		}
		return &Let{base: b, Name: name, Mutable: mutable, Init: init, Index: int(idx)}, nil
	case "Assign":
		target, _ := value.AsString(s.Fields["target"])
		val, err := child("value")
		if err != nil {
			return nil, err
		}
		return &Assign{base: b, Target: target, Value: val}, nil
	case "As":
		inner, err := child("inner")
		if err != nil {
			return nil, err
		}
		return &As{base: b, Inner: inner}, nil
	case "Function", "AsyncFunction":
		parr := s.Fields["params"].(*value.Array)
		params := make([]Param, len(parr.Vals))
		for i, p := range parr.Vals {
			pv, err := paramFromValue(p)
			if err != nil {
				return nil, err
			}
			params[i] = pv
		}
		body, err := child("body")
		if err != nil {
			return nil, err
		}
		carr := s.Fields["captures"].(*value.Array)
		captures := make([]string, len(carr.Vals))
		for i, c := range carr.Vals {
			captures[i], _ = value.AsString(c)
		}
		if vv.Tag == "AsyncFunction" {
			return &AsyncFunction{base: b, Params: params, Body: body, Captures: captures}, nil
		}
		return &Function{base: b, Params: params, Body: body, Captures: captures}, nil
	case "Call", "CallAsync":
		callee, err := child("callee")
		if err != nil {
			return nil, err
		}
		args, err := nodesFromValue(s.Fields["args"])
		if err != nil {
			return nil, err
		}
		if vv.Tag == "CallAsync" {
			return &CallAsync{base: b, Callee: callee, Args: args}, nil
		}
		return &Call{base: b, Callee: callee, Args: args}, nil
	case "NewRef":
		init, err := child("init")
		if err != nil {
			return nil, err
		}
		return &NewRef{base: b, Init: init}, nil
	case "NewArray":
		elems, err := nodesFromValue(s.Fields["elems"])
		if err != nil {
			return nil, err
		}
		return &NewArray{base: b, Elems: elems}, nil
	case "NewSet":
		elems, err := nodesFromValue(s.Fields["elems"])
		if err != nil {
			return nil, err
		}
		return &NewSet{base: b, Elems: elems}, nil
	case "NewDict":
		arr := s.Fields["entries"].(*value.Array)
		entries := make([]DictEntry, len(arr.Vals))
		for i, e := range arr.Vals {
			es := e.(*value.Struct)
			k, err := FromValue(es.Fields["key"])
			if err != nil {
				return nil, err
			}
			vn, err := FromValue(es.Fields["value"])
			if err != nil {
				return nil, err
			}
			entries[i] = DictEntry{Key: k, Value: vn}
		}
		return &NewDict{base: b, Entries: entries}, nil
	case "Struct":
		arr := s.Fields["fields"].(*value.Array)
		fields := make([]FieldInit, len(arr.Vals))
		for i, e := range arr.Vals {
			es := e.(*value.Struct)
			name, _ := value.AsString(es.Fields["name"])
			vn, err := FromValue(es.Fields["value"])
			if err != nil {
				return nil, err
			}
			fields[i] = FieldInit{Name: name, Value: vn}
		}
		return &Struct{base: b, Fields: fields}, nil
	case "GetField":
		target, err := child("target")
		if err != nil {
			return nil, err
		}
		field, _ := value.AsString(s.Fields["field"])
		return &GetField{base: b, Target: target, Field: field}, nil
	case "Variant":
		tag, _ := value.AsString(s.Fields["tag"])
		val, err := child("value")
		if err != nil {
			return nil, err
		}
		return &Variant{base: b, Tag: tag, Value: val}, nil
	case "Block":
		stmts, err := nodesFromValue(s.Fields["stmts"])
		if err != nil {
			return nil, err
		}
		return &Block{base: b, Stmts: stmts}, nil
	case "IfElse":
		cond, err := child("cond")
		if err != nil {
			return nil, err
		}
		then, err := child("then")
		if err != nil {
			return nil, err
		}
		els, err := optionalFromValue(s.Fields["else"])
		if err != nil {
			return nil, err
		}
		return &IfElse{base: b, Cond: cond, Then: then, Else: els}, nil
	case "Match":
		subject, err := child("subject")
		if err != nil {
			return nil, err
		}
		arr := s.Fields["cases"].(*value.Array)
		cases := make([]MatchCase, len(arr.Vals))
		for i, e := range arr.Vals {
			es := e.(*value.Struct)
			tag, _ := value.AsString(es.Fields["tag"])
			bind, _ := value.AsString(es.Fields["bind"])
			body, err := FromValue(es.Fields["body"])
			if err != nil {
				return nil, err
			}
			cases[i] = MatchCase{Tag: tag, Bind: bind, Body: body}
		}
		return &Match{base: b, Subject: subject, Cases: cases}, nil
	case "UnwrapRecursive":
		inner, err := child("inner")
		if err != nil {
			return nil, err
		}
		return &UnwrapRecursive{base: b, Inner: inner}, nil
	case "WrapRecursive":
		inner, err := child("inner")
		if err != nil {
			return nil, err
		}
		return &WrapRecursive{base: b, Inner: inner}, nil
	case "While":
		label := labelFromValue(s.Fields["label"])
		cond, err := child("cond")
		if err != nil {
			return nil, err
		}
		body, err := child("body")
		if err != nil {
			return nil, err
		}
		return &While{base: b, Label: label, Cond: cond, Body: body}, nil
	case "ForArray", "ForSet":
		label := labelFromValue(s.Fields["label"])
		iterable, err := child("iterable")
		if err != nil {
			return nil, err
		}
		elemName, _ := value.AsString(s.Fields["elemName"])
		body, err := child("body")
		if err != nil {
			return nil, err
		}
		if vv.Tag == "ForSet" {
			return &ForSet{base: b, Label: label, Iterable: iterable, ElemName: elemName, Body: body}, nil
		}
		return &ForArray{base: b, Label: label, Iterable: iterable, ElemName: elemName, Body: body}, nil
	case "ForDict":
		label := labelFromValue(s.Fields["label"])
		iterable, err := child("iterable")
		if err != nil {
			return nil, err
		}
		keyName, _ := value.AsString(s.Fields["keyName"])
		valueName, _ := value.AsString(s.Fields["valueName"])
		body, err := child("body")
		if err != nil {
			return nil, err
		}
		return &ForDict{base: b, Label: label, Iterable: iterable, KeyName: keyName, ValueName: valueName, Body: body}, nil
	case "Return":
		val, err := optionalFromValue(s.Fields["value"])
		if err != nil {
			return nil, err
		}
		return &Return{base: b, Value: val}, nil
	case "Continue":
		target := labelFromValue(s.Fields["target"])
		return &Continue{base: b, Target: &target}, nil
	case "Break":
		target := labelFromValue(s.Fields["target"])
		return &Break{base: b, Target: &target}, nil
	case "Builtin":
		name, _ := value.AsString(s.Fields["name"])
		args, err := nodesFromValue(s.Fields["args"])
		if err != nil {
			return nil, err
		}
		return &Builtin{base: b, Name: name, Args: args}, nil
	case "Platform":
		name, _ := value.AsString(s.Fields["name"])
		args, err := nodesFromValue(s.Fields["args"])
		if err != nil {
			return nil, err
		}
		return &Platform{base: b, Name: name, Args: args}, nil
	default:
		return nil, fmt.Errorf("ir: unknown node tag %q", vv.Tag)
	}
}
