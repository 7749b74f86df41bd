package mcpserver

// RegistrationGuide explains to an assistant how the tool server gets
// registered with host applications and how to recover from failures.
const RegistrationGuide = `# Filing Explorer Registration Guide

The filing-explorer tool server runs as a local stdio process. A host
application only starts it after an entry exists under "mcpServers" in the
host's JSON configuration file.

## Host configuration files

| Kind          | Host                    | File                                                         |
|---------------|-------------------------|--------------------------------------------------------------|
| desktop       | Claude Desktop          | macOS: ~/Library/Application Support/Claude/claude_desktop_config.json |
|               |                         | Windows: %APPDATA%\Claude\claude_desktop_config.json          |
|               |                         | Linux: ~/.config/Claude/claude_desktop_config.json            |
| code-global   | Claude Code (global)    | ~/.claude.json                                               |

## Entry format

` + "```" + `json
{
  "mcpServers": {
    "filing-explorer": {
      "type": "stdio",
      "command": "/absolute/path/to/mcp-server",
      "args": []
    }
  }
}
` + "```" + `

"type" is only written for code-global. Every other key in the file is
preserved byte-for-byte in value: numbers, key order and unrelated servers
are never touched.

## Rules

1. Installing is idempotent. When the entry already matches, the file is not
   rewritten.
2. A host file that exists but is not valid JSON is never modified. Fix or
   remove it, then install again.
3. Installing into all hosts is best-effort: one failing host does not stop
   the others.
4. Restart the host application after any change.

## States reported by get_status

- ready: at least one host is registered and its binary exists.
- broken: a host is registered but the recorded binary is missing. Install
  again to point it at the current binary.
- error: a host file or the credentials file could not be read.
- not_configured: no host has the server registered.

When degraded is true, at least one host file or the credentials file could
not be read even though the state may be ready or broken. Check each
target's error field.
`
