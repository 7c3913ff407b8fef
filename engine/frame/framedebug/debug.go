/*
Package framedebug draws box trees and fragment trees for debugging.

Box trees may be exported in DOT format for Graphviz; fragment trees are
printed as indented text, which is what most test failures need.
*/
package framedebug

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/xlab/treeprint"

	"github.com/npillmayer/folio/engine/frame"
)

// Parameters for GraphViz drawing.
type graphParamsType struct {
	Fontname string
	BoxTmpl  *template.Template
	EdgeTmpl *template.Template
}

// ToGraphViz creates a graphical representation of a box tree.
// It produces a DOT file format suitable as input for Graphviz, given a Writer.
func ToGraphViz(tree *frame.Tree, w io.Writer) error {
	header, err := template.New("boxTree").Parse(graphHeadTmpl)
	if err != nil {
		return err
	}
	gparams := graphParamsType{Fontname: "Helvetica"}
	gparams.BoxTmpl = template.Must(template.New("box").Funcs(
		template.FuncMap{
			"shortstring": shortText,
			"label":       label,
		}).Parse(boxTmpl))
	gparams.EdgeTmpl = template.Must(template.New("boxedge").Parse(edgeTmpl))
	if err = header.Execute(w, gparams); err != nil {
		return err
	}
	if tree.Len() > 0 {
		tree.Walk(tree.Root(), func(b *frame.Box) bool {
			if err != nil {
				return false
			}
			if err = gparams.BoxTmpl.Execute(w, b); err != nil {
				return false
			}
			if b.Parent != frame.NoBox {
				err = gparams.EdgeTmpl.Execute(w, cedge{From: b.Parent, To: b.ID})
			}
			return true
		})
	}
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, "}\n")
	return err
}

type cedge struct {
	From, To frame.BoxID
}

func label(b *frame.Box) string {
	if b.Anonymous {
		return fmt.Sprintf("%q", b.Kind.String()+" (anon)")
	}
	return fmt.Sprintf("%q", b.Kind.String()+" "+b.Name)
}

func shortText(b *frame.Box) string {
	txt := []rune(b.Text)
	s := string(txt)
	if len(txt) > 10 {
		s = string(txt[:10]) + "…"
	}
	s = strings.NewReplacer("\n", `\n`, "\t", `\t`, " ", "␣").Replace(s)
	return fmt.Sprintf("%q", "T "+s)
}

// --- Tree printing ----------------------------------------------------

// BoxTree prints a box tree as indented text.
func BoxTree(tree *frame.Tree) string {
	if tree.Len() == 0 {
		return "<empty box tree>\n"
	}
	root := treeprint.New()
	root.SetValue(tree.Box(tree.Root()).String())
	boxBranch(tree, tree.Root(), root)
	return root.String()
}

func boxBranch(tree *frame.Tree, id frame.BoxID, node treeprint.Tree) {
	for _, ch := range tree.Children(id) {
		b := tree.Box(ch)
		if b.Kind == frame.Text {
			node.AddMetaNode(b.Kind, fmt.Sprintf("%d %q", b.ID, b.Text))
			continue
		}
		boxBranch(tree, ch, node.AddBranch(b.String()))
	}
}

// FragmentTree prints a fragment tree with the used geometry of each
// fragment in big points, e.g.
//
//     block#0 (0,0) 150×45
//     └── block#1 (0,0) 150×15
//         └── line (0,0) 150×15
//
// Text slices are printed with their byte range, continued fragments are
// flagged with … before or after.
func FragmentTree(f *frame.Fragment) string {
	if f == nil {
		return "<no fragment>\n"
	}
	root := treeprint.New()
	root.SetValue(fragmentLabel(f))
	fragmentBranch(f, root)
	return root.String()
}

func fragmentBranch(f *frame.Fragment, node treeprint.Tree) {
	for _, ch := range f.Children {
		if len(ch.Children) == 0 {
			node.AddNode(fragmentLabel(ch))
			continue
		}
		fragmentBranch(ch, node.AddBranch(fragmentLabel(ch)))
	}
}

func fragmentLabel(f *frame.Fragment) string {
	var b strings.Builder
	if f.ContinuedBefore {
		b.WriteString("… ")
	}
	if f.Box == frame.NoBox {
		b.WriteString(f.Kind.String())
	} else {
		fmt.Fprintf(&b, "%s#%d", f.Kind, f.Box)
	}
	fmt.Fprintf(&b, " (%.4g,%.4g) %.4g×%.4g", f.Used.X.Points(), f.Used.Y.Points(),
		f.Used.W.Points(), f.Used.H.Points())
	if f.Text != nil {
		fmt.Fprintf(&b, " [%d:%d]", f.Text.Start, f.Text.End)
		if f.Text.Hyphen {
			b.WriteString("-")
		}
	}
	switch {
	case f.Placeholder:
		b.WriteString(" footnote-call")
	case f.Repeated:
		b.WriteString(" repeated")
	}
	if f.ContinuedAfter {
		b.WriteString(" …")
	}
	return b.String()
}

// --- Templates --------------------------------------------------------

const graphHeadTmpl = `digraph g {
  graph [labelloc="t" label="" splines=true overlap=false rankdir = "LR"];
  graph [fontname = "{{ .Fontname }}" fontsize=12] ;
   node [fontname = "{{ .Fontname }}" fontsize=12] ;
   edge [fontname = "{{ .Fontname }}" fontsize=12] ;
`

const boxTmpl = `{{ if .Text }}
node{{ .ID }}	[ label={{ shortstring . }} shape=box style=filled fillcolor=grey95 fontname="Courier" fontsize=11.0 ] ;
{{ else if .Anonymous }}
node{{ .ID }}	[ label={{ label . }} shape=box style=filled fillcolor=grey90 ] ;
{{ else }}
node{{ .ID }}	[ label={{ label . }} shape=box style=filled fillcolor=lightblue3 ] ;
{{ end }}`

const edgeTmpl = `node{{ .From }} -> node{{ .To }} [weight=1] ;
`
