package explorer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

type session struct {
	reader *bufio.Reader
	out    io.Writer
}

// readLine returns the trimmed line, io.EOF once the input is closed
func (s *session) readLine() (string, error) {
	line, err := s.reader.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (s *session) printf(format string, args ...interface{}) {
	fmt.Fprintf(s.out, format, args...)
}

// Interact runs the main interactive loop until quit or the end of the input
func (e *Explorer) Interact(in io.Reader, out io.Writer) {
	s := &session{reader: bufio.NewReader(in), out: out}
	s.printf("%s", e.header())
	for {
		s.printf("%s", e.prompt())

		optionS, err := s.readLine()
		if err != nil {
			return
		}
		option, err := strconv.Atoi(optionS)
		if err != nil {
			s.printf("Invalid input! Try again\n")
			continue
		}
		s.printf("------------------------------------\n")
		switch option {
		case 1:
			s.printf("%s", e.getInitialStates())
		case 2:
			s.printf("Enter the state key: ")
			stateK, err := s.readLine()
			if err != nil {
				return
			}
			s.printf("%s", e.getQValues(stateK))
		case 3:
			s.printf("Enter the state key: ")
			stateK, err := s.readLine()
			if err != nil {
				return
			}
			s.printf("%s", e.getFullState(stateK))
		case 4:
			if len(e.Traces) == 0 {
				s.printf("No traces loaded\n")
				continue
			}
			s.printf("Enter trace number (1-%d): ", len(e.Traces))
			traceNoS, err := s.readLine()
			if err != nil {
				return
			}
			traceNo, err := strconv.Atoi(traceNoS)
			if err != nil {
				s.printf("Invalid input! Not a number. Try again\n")
				continue
			}
			if traceNo < 1 || traceNo > len(e.Traces) {
				s.printf("Invalid input! Should be between (1-%d). Try again\n", len(e.Traces))
				continue
			}
			if !e.interactTrace(traceNo-1, s) {
				return
			}
		case 5:
			s.printf("Quitting! Thank you\n")
			return
		default:
			s.printf("Wrong choice! Try again!\n")
		}
	}
}

func (e *Explorer) header() string {
	return fmt.Sprintf(`
Welcome to the q table explorer!
Table: %s (%d states)
`, e.TableLocation, e.Space.Len())
}

func (e *Explorer) prompt() string {
	return `
------------------------------------
Select one of the following options:
1. Show initial states
2. Show QValues
3. Show full state
4. Explore a trace
5. Quit
Enter your choice: `
}

func (e *Explorer) tracePrompt() string {
	return `
---------------------------------------------
Step(s) QValues(d) Prev(p) Last(l) Quit(q): `
}

// interactTrace steps through a trace, false when the input ended
func (e *Explorer) interactTrace(traceNo int, s *session) bool {
	stepCount := 0
	trace := e.Traces[traceNo]
	if trace.Len() == 0 {
		s.printf("Empty trace! Initial state: %s\n", trace.Initial)
		return true
	}
	s.printf("---------------------------------------------\n")
	for {
		st, a, ns, r, _ := trace.Get(stepCount)
		s.printf("For step %d\nState: %s\nAction: %s\nNextState: %s\nReward: %g\n", stepCount+1, st, a, ns, r)
		s.printf("%s", e.tracePrompt())
		option, err := s.readLine()
		if err != nil {
			return false
		}
		s.printf("---------------------------------------------\n")
		switch option {
		case "s":
			if stepCount == trace.Len()-1 {
				s.printf("No more steps!\n")
				continue
			}
			stepCount += 1
		case "d":
			s.printf("%s", e.getQValues(st))
		case "p":
			if stepCount == 0 {
				s.printf("No more steps!\n")
				continue
			}
			stepCount -= 1
		case "l":
			stepCount = trace.Len() - 1
		case "q":
			return true
		default:
			s.printf("Invalid option! Try again.\n")
		}
	}
}
