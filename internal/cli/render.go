package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/faas3/faas3-cli/internal/app"
	"github.com/faas3/faas3-cli/internal/faasapi"
	"github.com/faas3/faas3-cli/internal/model"
	"github.com/faas3/faas3-cli/internal/project"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func renderCreated(w io.Writer, c *project.Created, owner string) {
	fmt.Fprintf(w, "✅ Created %s project in %s\n", c.Template, c.Dir)
	for _, f := range c.Files {
		fmt.Fprintf(w, "   %s\n", f)
	}
	if owner == "" {
		fmt.Fprintf(w, "👉 Set basic.owner in %s to your Sui address before deploying.\n", project.ConfigFile)
	}
}

func renderDeployment(w io.Writer, d *app.Deployment) {
	fmt.Fprintf(w, "🚀 Deploying function %q (%s, %d bytes)\n", d.Record.Name, d.Record.Template, len(d.Record.Content))
	if d.Mint != nil {
		fmt.Fprintf(w, "⛓  Minted object %s in transaction %s\n", d.Mint.ObjectID, d.Mint.Digest)
	}
	if d.Result == nil {
		return
	}
	if d.Result.Succeeded() {
		fmt.Fprintf(w, "✅ Deployed, status %d\n", d.Result.Status)
		return
	}
	fmt.Fprintf(w, "❌ Deploy failed, status %d\n", d.Result.Status)
	if d.Result.Error != nil {
		fmt.Fprintf(w, "   %s\n", d.Result.Error.Error())
	}
}

func renderCall(w io.Writer, res *faasapi.CallResult) error {
	fmt.Fprintln(w, "✅ Your resp is:")
	return writeJSON(w, res.Value)
}

func renderList(w io.Writer, recs []model.FunctionRecord) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTEMPLATE\tOWNER")
	for _, r := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Name, r.Template, r.Owner)
	}
	return tw.Flush()
}

func renderInfo(w io.Writer, rec *model.FunctionRecord) error {
	fmt.Fprintf(w, "🚀 The %q detail...\n", rec.Name)
	return writeJSON(w, rec)
}

func renderVerification(w io.Writer, v *app.Verification, ok bool) {
	obj := v.Object
	fmt.Fprintln(w, "On-chain metadata:")
	fmt.Fprintf(w, "  name:        %s\n", obj.Name)
	fmt.Fprintf(w, "  description: %s\n", obj.Description)
	if u := obj.URLString(); u != "" {
		fmt.Fprintf(w, "  url:         %s\n", u)
	}
	fmt.Fprintf(w, "  object:      %s\n", v.Record.ObjectID)
	if ok {
		fmt.Fprintln(w, "✅ Runtime content matches the on-chain code.")
		return
	}
	fmt.Fprintln(w, "❌ Runtime content differs from the on-chain code.")
}
