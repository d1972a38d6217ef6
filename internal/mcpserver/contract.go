package mcpserver

// InboxFormatContract describes the canonical YAML task-file format that
// files dropped into the import inbox must follow.
const InboxFormatContract = `# Raido Inbox File Format

Files dropped into the inbox directory are imported as tasks and renamed to
` + "`<name>.imported`" + ` once consumed. Only ` + "`.yaml`" + ` and ` + "`.yml`" + ` files are picked up.

## Structure

` + "```" + `yaml
tasks:
  - title: Pay rent                 # REQUIRED - non-empty
    description: January invoice    # OPTIONAL
    due: 2024-01-01T09:00:00Z       # OPTIONAL - RFC3339 timestamp
    priority: critical              # OPTIONAL - low | medium | high | critical (default medium)
    category: Work                  # OPTIONAL - created on first use (default Personal)
` + "```" + `

## Rules

1. **One file may carry any number of tasks** under the top-level ` + "`tasks`" + ` list.
2. **Entries without a title are skipped**; the rest of the file still imports.
3. **Priority names are case-insensitive**; unknown names skip the entry.
4. **Category names are matched exactly** (case-sensitive) after trimming
   surrounding whitespace; an unseen name creates a new category.
5. **Encoding** is UTF-8.
`
