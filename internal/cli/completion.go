// Package cli provides shell completion script generation for various shells.
package cli

import (
	"fmt"
	"io"
)

// GenerateCompletion generates a shell completion script for the specified shell.
//
// Parameters:
//   - out: The writer to output the completion script.
//   - shell: The shell type ("bash", "zsh", "fish", "powershell").
//
// Returns:
//   - error: An error if the shell is not supported.
func GenerateCompletion(out io.Writer, shell string) error {
	switch shell {
	case "bash":
		return generateBashCompletion(out)
	case "zsh":
		return generateZshCompletion(out)
	case "fish":
		return generateFishCompletion(out)
	case "powershell", "ps":
		return generatePowerShellCompletion(out)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish, powershell)", shell)
	}
}

// generateBashCompletion generates a Bash completion script.
func generateBashCompletion(out io.Writer) error {
	script := `# Bash completion script for resofactor
# Add this to your ~/.bashrc or ~/.bash_completion

_resofactor_completions() {
    local cur prev opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    # Main options
    opts="--help -h --version -V -n -v -d --details --timeout --precision --order --kernel-low --kernel-high --samples --span --threshold --attenuation --radius-percent --radius-cap --shell-filter --shell-bandwidth --shell-count --shell-floor --shell-spike --shell-overlap --shell-samples --workers --json --server --port --no-color --output -o --quiet -q --completion"

    case "${prev}" in
        --completion)
            COMPREPLY=( $(compgen -W "bash zsh fish powershell" -- "${cur}") )
            return 0
            ;;
        --output|-o)
            # File/directory completion
            COMPREPLY=( $(compgen -f -- "${cur}") )
            return 0
            ;;
        --port)
            COMPREPLY=( $(compgen -W "8080 3000 5000 9000" -- "${cur}") )
            return 0
            ;;
        --timeout)
            COMPREPLY=( $(compgen -W "30s 1m 5m 10m 30m" -- "${cur}") )
            return 0
            ;;
        --order)
            COMPREPLY=( $(compgen -W "4 6 8 12" -- "${cur}") )
            return 0
            ;;
        --samples|--span)
            COMPREPLY=( $(compgen -W "500 1000 3000 10000" -- "${cur}") )
            return 0
            ;;
    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
}

complete -F _resofactor_completions resofactor
`
	_, err := fmt.Fprint(out, script)
	return err
}

// generateZshCompletion generates a Zsh completion script.
func generateZshCompletion(out io.Writer) error {
	script := `#compdef resofactor

# Zsh completion script for resofactor
# Add this to your ~/.zshrc or place in $fpath

_resofactor() {
    _arguments -s \
        '(-h --help)'{-h,--help}'[Show help message]' \
        '(-V --version)'{-V,--version}'[Show version information]' \
        '-n[Integer to search for divisors]:number:' \
        '-v[Display additional search diagnostics]' \
        '(-d --details)'{-d,--details}'[Show work counters and metadata]' \
        '--timeout[Baseline wall-clock budget]:duration:(30s 1m 5m 10m 30m)' \
        '--precision[Requested decimal precision]:digits:' \
        '--order[Dirichlet kernel order]:order:(4 6 8 12)' \
        '--kernel-low[Lower bound of the kernel parameter range]:value:' \
        '--kernel-high[Upper bound of the kernel parameter range]:value:' \
        '--samples[Baseline sample budget]:count:(500 1000 3000 10000)' \
        '--span[Baseline sweep half-width]:count:(60 120 240)' \
        '--threshold[Baseline certification score gate]:value:' \
        '--attenuation[Gate relaxation per size doubling]:value:' \
        '--radius-percent[Certification radius fraction]:value:' \
        '--radius-cap[Ceiling on the certification radius]:value:' \
        '--shell-filter[Enable the shell exclusion filter]' \
        '--shell-bandwidth[Base radius of the innermost shell]:value:' \
        '--shell-count[Shells on each side of the square root]:count:' \
        '--shell-floor[Amplitude floor for shell exclusion]:value:' \
        '--shell-spike[Spike floor that rescues a shell]:value:' \
        '--shell-overlap[Fractional overlap between shells]:value:' \
        '--shell-samples[Kernel parameters sampled per shell]:count:' \
        '--workers[Sweep parallelism]:count:' \
        '--json[Output in JSON format]' \
        '--server[Start HTTP server mode]' \
        '--port[Server port]:port:(8080 3000 5000 9000)' \
        '--no-color[Disable colored output]' \
        '(-o --output)'{-o,--output}'[Output file path]:file:_files' \
        '(-q --quiet)'{-q,--quiet}'[Quiet mode for scripts]' \
        '--completion[Generate completion script]:shell:(bash zsh fish powershell)'
}

_resofactor "$@"
`
	_, err := fmt.Fprint(out, script)
	return err
}

// generateFishCompletion generates a Fish completion script.
func generateFishCompletion(out io.Writer) error {
	script := `# Fish completion script for resofactor
# Add this to ~/.config/fish/completions/resofactor.fish

# Disable file completion by default
complete -c resofactor -f

# Help and version
complete -c resofactor -s h -l help -d 'Show help message'
complete -c resofactor -s V -l version -d 'Show version information'

# Main options
complete -c resofactor -s n -d 'Integer to search for divisors' -x
complete -c resofactor -s v -d 'Display additional search diagnostics'
complete -c resofactor -s d -l details -d 'Show work counters and metadata'
complete -c resofactor -l timeout -d 'Baseline wall-clock budget' -xa '30s 1m 5m 10m 30m'
complete -c resofactor -l precision -d 'Requested decimal precision' -x
complete -c resofactor -l order -d 'Dirichlet kernel order' -xa '4 6 8 12'
complete -c resofactor -l kernel-low -d 'Lower bound of the kernel parameter range' -x
complete -c resofactor -l kernel-high -d 'Upper bound of the kernel parameter range' -x
complete -c resofactor -l samples -d 'Baseline sample budget' -xa '500 1000 3000 10000'
complete -c resofactor -l span -d 'Baseline sweep half-width' -xa '60 120 240'
complete -c resofactor -l threshold -d 'Baseline certification score gate' -x
complete -c resofactor -l attenuation -d 'Gate relaxation per size doubling' -x
complete -c resofactor -l radius-percent -d 'Certification radius fraction' -x
complete -c resofactor -l radius-cap -d 'Ceiling on the certification radius' -x

# Shell filter
complete -c resofactor -l shell-filter -d 'Enable the shell exclusion filter'
complete -c resofactor -l shell-bandwidth -d 'Base radius of the innermost shell' -x
complete -c resofactor -l shell-count -d 'Shells on each side of the square root' -x
complete -c resofactor -l shell-floor -d 'Amplitude floor for shell exclusion' -x
complete -c resofactor -l shell-spike -d 'Spike floor that rescues a shell' -x
complete -c resofactor -l shell-overlap -d 'Fractional overlap between shells' -x
complete -c resofactor -l shell-samples -d 'Kernel parameters sampled per shell' -x

# Output options
complete -c resofactor -l json -d 'Output in JSON format'
complete -c resofactor -s o -l output -d 'Output file path' -rF
complete -c resofactor -s q -l quiet -d 'Quiet mode for scripts'
complete -c resofactor -l no-color -d 'Disable colored output'
complete -c resofactor -l workers -d 'Sweep parallelism' -x

# Server mode
complete -c resofactor -l server -d 'Start HTTP server mode'
complete -c resofactor -l port -d 'Server port' -xa '8080 3000 5000 9000'

# Completion
complete -c resofactor -l completion -d 'Generate completion script' -xa 'bash zsh fish powershell'
`
	_, err := fmt.Fprint(out, script)
	return err
}

// generatePowerShellCompletion generates a PowerShell completion script.
func generatePowerShellCompletion(out io.Writer) error {
	script := `# PowerShell completion script for resofactor
# Add this to your $PROFILE

Register-ArgumentCompleter -CommandName 'resofactor' -Native -ScriptBlock {
    param($wordToComplete, $commandAst, $cursorPosition)

    $options = @(
        @{Name = '-h'; Description = 'Show help message' }
        @{Name = '--help'; Description = 'Show help message' }
        @{Name = '-V'; Description = 'Show version information' }
        @{Name = '--version'; Description = 'Show version information' }
        @{Name = '-n'; Description = 'Integer to search for divisors' }
        @{Name = '-v'; Description = 'Display additional search diagnostics' }
        @{Name = '-d'; Description = 'Show work counters and metadata' }
        @{Name = '--details'; Description = 'Show work counters and metadata' }
        @{Name = '--timeout'; Description = 'Baseline wall-clock budget' }
        @{Name = '--precision'; Description = 'Requested decimal precision' }
        @{Name = '--order'; Description = 'Dirichlet kernel order' }
        @{Name = '--kernel-low'; Description = 'Lower bound of the kernel parameter range' }
        @{Name = '--kernel-high'; Description = 'Upper bound of the kernel parameter range' }
        @{Name = '--samples'; Description = 'Baseline sample budget' }
        @{Name = '--span'; Description = 'Baseline sweep half-width' }
        @{Name = '--threshold'; Description = 'Baseline certification score gate' }
        @{Name = '--attenuation'; Description = 'Gate relaxation per size doubling' }
        @{Name = '--radius-percent'; Description = 'Certification radius fraction' }
        @{Name = '--radius-cap'; Description = 'Ceiling on the certification radius' }
        @{Name = '--shell-filter'; Description = 'Enable the shell exclusion filter' }
        @{Name = '--shell-bandwidth'; Description = 'Base radius of the innermost shell' }
        @{Name = '--shell-count'; Description = 'Shells on each side of the square root' }
        @{Name = '--shell-floor'; Description = 'Amplitude floor for shell exclusion' }
        @{Name = '--shell-spike'; Description = 'Spike floor that rescues a shell' }
        @{Name = '--shell-overlap'; Description = 'Fractional overlap between shells' }
        @{Name = '--shell-samples'; Description = 'Kernel parameters sampled per shell' }
        @{Name = '--workers'; Description = 'Sweep parallelism' }
        @{Name = '--json'; Description = 'Output in JSON format' }
        @{Name = '--server'; Description = 'Start HTTP server mode' }
        @{Name = '--port'; Description = 'Server port' }
        @{Name = '--no-color'; Description = 'Disable colored output' }
        @{Name = '-o'; Description = 'Output file path' }
        @{Name = '--output'; Description = 'Output file path' }
        @{Name = '-q'; Description = 'Quiet mode for scripts' }
        @{Name = '--quiet'; Description = 'Quiet mode for scripts' }
        @{Name = '--completion'; Description = 'Generate completion script' }
    )

    $elements = $commandAst.CommandElements
    $prevElement = if ($elements.Count -gt 2) { $elements[-2].ToString() } else { '' }

    # Context-aware completions
    switch ($prevElement) {
        '--completion' {
            @('bash', 'zsh', 'fish', 'powershell') | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
            }
            return
        }
        '--timeout' {
            @('30s', '1m', '5m', '10m', '30m') | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
            }
            return
        }
        '--port' {
            @('8080', '3000', '5000', '9000') | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
            }
            return
        }
    }

    # Default: show options
    $options | Where-Object { $_.Name -like "$wordToComplete*" } | ForEach-Object {
        [System.Management.Automation.CompletionResult]::new($_.Name, $_.Name, 'ParameterName', $_.Description)
    }
}
`
	_, err := fmt.Fprint(out, script)
	return err
}
