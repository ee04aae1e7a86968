package specs

import "strings"

// WrapperSkipper strips a wrapper command's own flags (and, for timeout, its
// mandatory duration argument) and returns the inner payload argv — the
// command the wrapper will ultimately run. A nil or empty return means the
// wrapper carries no payload.
type WrapperSkipper func(args []string) []string

// BuiltinWrapperSkippers returns the flag-skipping rule for each wrapper
// command the registry recognizes out of the box. A wrapper name introduced
// only through user configuration (not listed here) gets no flag skipping —
// its entire argument list is treated as the inner payload, which is
// conservative but never unsafe.
func BuiltinWrapperSkippers() map[string]WrapperSkipper {
	return map[string]WrapperSkipper{
		"sudo":    skipSudoFlags,
		"doas":    skipDoasFlags,
		"env":     skipEnvAssignments,
		"xargs":   skipXargsFlags,
		"nice":    skipNiceFlags,
		"ionice":  skipIoniceFlags,
		"timeout": skipTimeoutFlags,
		"nohup":   skipNoFlags,
	}
}

func skipNoFlags(args []string) []string { return args }

func skipSudoFlags(args []string) []string {
	noValue := map[string]bool{"-E": true, "-H": true, "-n": true, "-A": true, "-b": true, "-k": true, "-S": true}
	i := 0
	for i < len(args) {
		a := args[i]
		switch {
		case a == "-u" || a == "--user":
			i += 2
		case strings.HasPrefix(a, "-u") && len(a) > 2:
			i++
		case noValue[a]:
			i++
		case strings.HasPrefix(a, "-") && a != "-":
			i++
		default:
			return args[i:]
		}
	}
	return safeSlice(args, i)
}

func skipDoasFlags(args []string) []string {
	noValue := map[string]bool{"-n": true}
	i := 0
	for i < len(args) {
		a := args[i]
		switch {
		case a == "-u":
			i += 2
		case noValue[a]:
			i++
		default:
			return args[i:]
		}
	}
	return safeSlice(args, i)
}

func skipEnvAssignments(args []string) []string {
	i := 0
	for i < len(args) {
		a := args[i]
		if a == "-i" || a == "-0" {
			i++
			continue
		}
		if a == "-u" || a == "--unset" {
			i += 2
			continue
		}
		if isAssignment(a) {
			i++
			continue
		}
		break
	}
	return safeSlice(args, i)
}

func skipXargsFlags(args []string) []string {
	valueFlags := map[string]bool{"-I": true, "-n": true, "-P": true, "-L": true, "-d": true, "-a": true, "-s": true, "-l": true}
	noValue := map[string]bool{"-0": true, "-r": true, "-t": true, "-p": true, "-x": true, "--null": true}
	i := 0
	for i < len(args) {
		a := args[i]
		switch {
		case valueFlags[a]:
			i += 2
		case noValue[a]:
			i++
		case strings.HasPrefix(a, "-") && a != "-":
			i++
		default:
			return args[i:]
		}
	}
	return safeSlice(args, i)
}

func skipNiceFlags(args []string) []string {
	i := 0
	for i < len(args) {
		a := args[i]
		switch {
		case a == "-n":
			i += 2
		case strings.HasPrefix(a, "--adjustment="):
			i++
		case strings.HasPrefix(a, "-") && a != "-":
			i++
		default:
			return args[i:]
		}
	}
	return safeSlice(args, i)
}

func skipIoniceFlags(args []string) []string {
	valueFlags := map[string]bool{"-c": true, "-n": true, "-p": true}
	i := 0
	for i < len(args) {
		a := args[i]
		switch {
		case valueFlags[a]:
			i += 2
		case a == "-t":
			i++
		case strings.HasPrefix(a, "-") && a != "-":
			i++
		default:
			return args[i:]
		}
	}
	return safeSlice(args, i)
}

func skipTimeoutFlags(args []string) []string {
	i := 0
	for i < len(args) {
		a := args[i]
		switch {
		case a == "-s" || a == "--signal" || a == "-k" || a == "--kill-after":
			i += 2
		case strings.HasPrefix(a, "--signal=") || strings.HasPrefix(a, "--kill-after="):
			i++
		case a == "--preserve-status" || a == "--foreground" || a == "-v" || a == "--verbose":
			i++
		case strings.HasPrefix(a, "-") && a != "-":
			i++
		default:
			// First non-flag token is the mandatory DURATION, not the command.
			i++
			return safeSlice(args, i)
		}
	}
	return safeSlice(args, i)
}

func safeSlice(args []string, i int) []string {
	if i >= len(args) {
		return nil
	}
	return args[i:]
}
