package project

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dhamidi/luadoc/lua/annotate"
)

var errNoCustomTypes = errors.New("no custom types to generate")

const typeFileHeader = `--[[
  Project Type Definition File (Generated)

  This file defines custom types and structures for the project.
  It serves as both documentation and a source of type information
  for the annotation tooling.

  Format version: 1.0
]]--

`

// GenerateTypeFile renders the catalog's custom types and function
// signatures as a type.lua file: class blocks with their fields,
// alias blocks with their variants, and annotated function stubs.
func (c *Context) GenerateTypeFile() (string, error) {
	if len(c.CustomTypes) == 0 {
		return "", errNoCustomTypes
	}

	var sb strings.Builder
	sb.WriteString(typeFileHeader)
	sb.WriteString("local Types = {}\n\n")

	sb.WriteString("-- =====================\n")
	sb.WriteString("-- Class/Table Definitions\n")
	sb.WriteString("-- =====================\n\n")
	for _, name := range sortedTypeNames(c.CustomTypes) {
		t := c.CustomTypes[name]
		if t.IsAlias {
			continue
		}
		fmt.Fprintf(&sb, "---@class %s\n", name)
		for _, field := range t.Fields {
			optional := ""
			if field.Optional {
				optional = "?"
			}
			fmt.Fprintf(&sb, "---@field %s%s %s %s\n",
				field.Name, optional, annotate.TypeString(field.Type), field.Description)
		}
		fmt.Fprintf(&sb, "Types.%s = {}\n\n", name)
		for _, methodName := range sortedSignatureNames(t.Methods) {
			method := t.Methods[methodName]
			sb.WriteString(formatSignature(method))
			fmt.Fprintf(&sb, "function Types.%s:%s(%s) end\n\n",
				name, methodName, parameterList(method))
		}
	}

	sb.WriteString("-- =====================\n")
	sb.WriteString("-- Enum Definitions\n")
	sb.WriteString("-- =====================\n\n")
	for _, name := range sortedTypeNames(c.CustomTypes) {
		t := c.CustomTypes[name]
		if !t.IsAlias || len(t.Variants) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "---@alias %s\n", name)
		for _, variant := range t.Variants {
			fmt.Fprintf(&sb, "---| '\"%s\"'\n", variant)
		}
		fmt.Fprintf(&sb, "Types.%s = {}\n\n", name)
	}

	sb.WriteString("-- =====================\n")
	sb.WriteString("-- Function Signatures\n")
	sb.WriteString("-- =====================\n\n")
	for _, name := range sortedSignatureNames(c.Signatures) {
		function := c.Signatures[name]
		if function.IsMethod {
			continue
		}
		sb.WriteString(formatSignature(function))
		fmt.Fprintf(&sb, "Types.%s = function(%s) end\n\n",
			function.Name, parameterList(function))
	}

	sb.WriteString("return Types")
	return sb.String(), nil
}

func formatSignature(function FunctionSignature) string {
	var sb strings.Builder
	if function.Description != "" {
		fmt.Fprintf(&sb, "--- %s\n", function.Description)
	}
	for _, param := range function.Parameters {
		optional := ""
		if param.Optional {
			optional = "?"
		}
		fmt.Fprintf(&sb, "---@param %s%s %s %s\n",
			param.Name, optional, annotate.TypeString(param.Type), param.Description)
	}
	if len(function.ReturnTypes) > 0 {
		names := make([]string, len(function.ReturnTypes))
		for i, rt := range function.ReturnTypes {
			names[i] = annotate.TypeString(rt)
		}
		fmt.Fprintf(&sb, "---@return %s\n", strings.Join(names, ", "))
	}
	return sb.String()
}

func parameterList(function FunctionSignature) string {
	names := make([]string, len(function.Parameters))
	for i, param := range function.Parameters {
		names[i] = param.Name
	}
	return strings.Join(names, ", ")
}

func sortedTypeNames(types map[string]*CustomType) []string {
	names := make([]string, 0, len(types))
	for name := range types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedSignatureNames(signatures map[string]FunctionSignature) []string {
	names := make([]string, 0, len(signatures))
	for name := range signatures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
