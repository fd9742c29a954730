package formatter

import "strings"

// documentHeader loads TikZ in a standalone class, so the output compiles
// on its own with pdflatex.
const documentHeader = `\documentclass[tikz,border=2pt]{standalone}
\usepackage{tikz}
\begin{document}
`

const documentFooter = `\end{document}
`

// WrapFragment returns the picture as is, newline terminated, ready to be
// \input into another document.
func WrapFragment(picture string) string {
	if strings.HasSuffix(picture, "\n") {
		return picture
	}
	return picture + "\n"
}

// WrapDocument embeds the picture into a complete LaTeX document.
func WrapDocument(picture string) string {
	return documentHeader + WrapFragment(picture) + documentFooter
}
