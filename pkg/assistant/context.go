// Package assistant assembles the grounding context for build questions
// and deduplicates identical queries within a session.
package assistant

import (
	"encoding/base64"
	"fmt"
	"strings"

	"assembly-guide-be/pkg/catalog"
	"assembly-guide-be/pkg/llm"
	"assembly-guide-be/pkg/store"
	"assembly-guide-be/pkg/workflow"
)

// Context is the structured bundle of subtask facts sent to the model for
// grounding. It is deterministic over (session step, subtask, catalog) and
// doubles as the cache-key material, so field order and serialization must
// stay stable.
type Context struct {
	SubtaskName        string `json:"subtask_name"`
	Bag                string `json:"bag"`
	Step               string `json:"step"`
	TeamNumber         int    `json:"team_number"`
	SubassemblyPages   []int  `json:"subassembly_pages"`
	FinalAssemblyPages []int  `json:"final_assembly_pages"`
	GiverTeam          *int   `json:"giver_team,omitempty"`
	ReceiverTeam       *int   `json:"receiver_team,omitempty"`
	SequenceSummary    string `json:"sequence_summary,omitempty"`
}

// BuildContext is a pure transform: no session mutation, no I/O.
func BuildContext(s *store.Session, sub catalog.Subtask, cat *catalog.Catalog) Context {
	resolver := workflow.NewSequenceResolver(cat)

	ctx := Context{
		SubtaskName:        sub.Name,
		Bag:                sub.Bag,
		Step:               s.Step.String(),
		TeamNumber:         s.TeamNumber,
		SubassemblyPages:   sub.SubassemblyPages,
		FinalAssemblyPages: sub.FinalAssemblyPages,
		SequenceSummary:    sequenceSummary(cat),
	}

	if giver, ok := resolver.GiverFor(sub); ok {
		team := giver.Team
		ctx.GiverTeam = &team
	}
	if receiver, ok := resolver.ReceiverFor(sub); ok {
		team := receiver.Team
		ctx.ReceiverTeam = &team
	}
	return ctx
}

func sequenceSummary(cat *catalog.Catalog) string {
	var b strings.Builder
	for i := 0; i < cat.Len(); i++ {
		sub, _ := cat.At(i)
		fmt.Fprintf(&b, "%d. %s (team %d)\n", i+1, sub.Name, sub.Team)
	}
	return b.String()
}

// SystemPrompt renders the instruction block for the completion provider.
func SystemPrompt(ctx Context) string {
	var prompt strings.Builder

	prompt.WriteString("<task>\n")
	prompt.WriteString("You are an assembly guide helping a student team build their part of a shared model.\n")
	prompt.WriteString("Answer questions using the subtask facts and the attached manual pages.\n")
	prompt.WriteString("</task>\n\n")

	prompt.WriteString("<subtask>\n")
	fmt.Fprintf(&prompt, "Name: %s\n", ctx.SubtaskName)
	fmt.Fprintf(&prompt, "Parts bag: %s\n", ctx.Bag)
	fmt.Fprintf(&prompt, "Team: %d\n", ctx.TeamNumber)
	fmt.Fprintf(&prompt, "Current step: %s\n", ctx.Step)
	if len(ctx.SubassemblyPages) > 0 {
		fmt.Fprintf(&prompt, "Subassembly manual pages: %v\n", ctx.SubassemblyPages)
	}
	fmt.Fprintf(&prompt, "Final assembly manual pages: %v\n", ctx.FinalAssemblyPages)
	if ctx.GiverTeam != nil {
		fmt.Fprintf(&prompt, "Receives a semi-finished product from team %d\n", *ctx.GiverTeam)
	} else {
		prompt.WriteString("First subtask in the build order: nothing to receive\n")
	}
	if ctx.ReceiverTeam != nil {
		fmt.Fprintf(&prompt, "Hands the result over to team %d\n", *ctx.ReceiverTeam)
	} else {
		prompt.WriteString("Last subtask in the build order: no handover needed\n")
	}
	prompt.WriteString("</subtask>\n\n")

	if ctx.SequenceSummary != "" {
		prompt.WriteString("<build_order>\n")
		prompt.WriteString(ctx.SequenceSummary)
		prompt.WriteString("</build_order>\n\n")
	}

	prompt.WriteString("<guidelines>\n")
	prompt.WriteString("1. Base your answer strictly on the subtask facts and manual pages\n")
	prompt.WriteString("2. Keep answers short and concrete; students read them mid-build\n")
	prompt.WriteString("3. If the question is about another team's work, point to the build order\n")
	prompt.WriteString("4. If the manual pages don't show what's asked, say so honestly\n")
	prompt.WriteString("</guidelines>")

	return prompt.String()
}

// ImageSource resolves a logical page number to image bytes. Missing pages
// report ok=false and are omitted from the attachment set.
type ImageSource interface {
	ReadPage(page int) ([]byte, bool)
}

// CollectImages returns the union of existing subassembly and
// final-assembly page images as data-URL attachments. An empty result is
// fine: the query degrades to text-only.
func CollectImages(src ImageSource, ctx Context, detail string) []llm.ImageAttachment {
	var attachments []llm.ImageAttachment
	seen := make(map[int]bool)

	for _, page := range append(append([]int{}, ctx.SubassemblyPages...), ctx.FinalAssemblyPages...) {
		if seen[page] {
			continue
		}
		seen[page] = true
		data, ok := src.ReadPage(page)
		if !ok {
			continue
		}
		attachments = append(attachments, llm.ImageAttachment{
			DataURL: "data:image/png;base64," + base64.StdEncoding.EncodeToString(data),
			Detail:  detail,
		})
	}
	return attachments
}
