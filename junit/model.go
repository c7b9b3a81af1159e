package junit

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// Element and attribute names of the report schema.
const (
	testSuitesElement       = "testsuites"
	testSuiteElement        = "testsuite"
	failureElement          = "failure"
	skippedElement          = "skipped"
	ignoredOnFailureElement = "ignored_on_failure"

	nameAttr             = "name"
	classNameAttr        = "classname"
	messageAttr          = "message"
	timeAttr             = "time"
	testsAttr            = "tests"
	errorsAttr           = "errors"
	failuresAttr         = "failures"
	skippedAttr          = "skipped"
	ignoredOnFailureAttr = "ignored_on_failure"
	reconciledAttr       = "reconciled"

	xmlnsPrefix = "xmlns"
	xmlPrefix   = "xml"
	xmlURL      = "http://www.w3.org/XML/1998/namespace"
)

// TestSuites is the report root. Attributes and unknown children are kept as found,
// so a rewritten report differs from the original only where reconciliation changed it.
type TestSuites struct {
	XMLName    xml.Name    `xml:"testsuites"`
	Attrs      []xml.Attr  `xml:",any,attr"`
	TestSuites []TestSuite `xml:"testsuite"`
}

// TestSuite ...
type TestSuite struct {
	XMLName   xml.Name   `xml:"testsuite"`
	Attrs     []xml.Attr `xml:",any,attr"`
	TestCases []TestCase `xml:"testcase"`
	Other     []Detail   `xml:",any"`
}

// TestCase ...
type TestCase struct {
	XMLName xml.Name   `xml:"testcase"`
	Attrs   []xml.Attr `xml:",any,attr"`
	Details []Detail   `xml:",any"`
}

// Detail is a child of a test case: failure, error, skipped, system-out...
type Detail struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	InnerXML string     `xml:",innerxml"`
}

// Name ...
func (s TestSuite) Name() string {
	name, _ := attr(s.Attrs, nameAttr)
	return name
}

// Name ...
func (c TestCase) Name() string {
	name, _ := attr(c.Attrs, nameAttr)
	return name
}

// ClassName ...
func (c TestCase) ClassName() string {
	name, _ := attr(c.Attrs, classNameAttr)
	return name
}

func (c TestCase) count(element string) int {
	n := 0
	for _, d := range c.Details {
		if d.XMLName.Local == element {
			n++
		}
	}
	return n
}

// Message ...
func (d Detail) Message() string {
	msg, _ := attr(d.Attrs, messageAttr)
	return msg
}

func attr(attrs []xml.Attr, name string) (string, bool) {
	for _, a := range attrs {
		if a.Name.Space == "" && a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func setAttr(attrs []xml.Attr, name, value string) []xml.Attr {
	for i, a := range attrs {
		if a.Name.Space == "" && a.Name.Local == name {
			attrs[i].Value = value
			return attrs
		}
	}
	return append(attrs, xml.Attr{Name: xml.Name{Local: name}, Value: value})
}

// intAttr reads a counter, test runners sometimes write thousands separators.
func intAttr(attrs []xml.Attr, name string) (int, bool, error) {
	value, ok := attr(attrs, name)
	if !ok || strings.TrimSpace(value) == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(strings.ReplaceAll(strings.TrimSpace(value), ",", ""))
	return n, true, err
}

func floatAttr(attrs []xml.Attr, name string) (float64, error) {
	value, ok := attr(attrs, name)
	if !ok || strings.TrimSpace(value) == "" {
		return 0, nil
	}
	return strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(value), ",", ""), 64)
}

// restorePrefixes writes the decoder's namespace URLs back as the document's prefixes.
func (s *TestSuites) restorePrefixes() {
	prefixes := map[string]string{xmlURL: xmlPrefix}
	defaultSpaces := map[string]bool{}
	s.visitAttrs(func(attrs []xml.Attr) {
		for _, a := range attrs {
			switch {
			case a.Name.Space == xmlnsPrefix:
				prefixes[a.Value] = a.Name.Local
			case a.Name.Space == "" && a.Name.Local == xmlnsPrefix:
				defaultSpaces[a.Value] = true
			}
		}
	})

	s.visitAttrs(func(attrs []xml.Attr) {
		for i, a := range attrs {
			if a.Name.Space == "" {
				continue
			}
			attrs[i].Name = xml.Name{Local: qualifiedName(a.Name, prefixes)}
		}
	})

	restoreDetail := func(d *Detail) {
		if d.XMLName.Space == "" || defaultSpaces[d.XMLName.Space] {
			d.XMLName.Space = ""
			return
		}
		d.XMLName = xml.Name{Local: qualifiedName(d.XMLName, prefixes)}
	}
	for i := range s.TestSuites {
		suite := &s.TestSuites[i]
		for j := range suite.Other {
			restoreDetail(&suite.Other[j])
		}
		for j := range suite.TestCases {
			for k := range suite.TestCases[j].Details {
				restoreDetail(&suite.TestCases[j].Details[k])
			}
		}
	}
}

func (s *TestSuites) visitAttrs(fn func(attrs []xml.Attr)) {
	fn(s.Attrs)
	for _, suite := range s.TestSuites {
		fn(suite.Attrs)
		for _, d := range suite.Other {
			fn(d.Attrs)
		}
		for _, testCase := range suite.TestCases {
			fn(testCase.Attrs)
			for _, d := range testCase.Details {
				fn(d.Attrs)
			}
		}
	}
}

// qualifiedName is prefix:local, an undeclared prefix is left in Space by the decoder.
func qualifiedName(name xml.Name, prefixes map[string]string) string {
	if name.Space == xmlnsPrefix {
		return xmlnsPrefix + ":" + name.Local
	}
	if prefix, ok := prefixes[name.Space]; ok {
		return prefix + ":" + name.Local
	}
	return name.Space + ":" + name.Local
}
