package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/clinicstack/cliniccore/internal/clinicerr"
	"github.com/clinicstack/cliniccore/internal/models"
	"github.com/clinicstack/cliniccore/internal/service"
)

// Shell is the interactive caller of the clinic core. It parses typed
// commands, validates identifiers before they reach the controller, and
// renders the documented success and error outcomes.
type Shell struct {
	ctrl *service.Controller
	in   io.Reader
	out  io.Writer
}

// NewShell builds a shell reading commands from in and writing to out.
func NewShell(ctrl *service.Controller, in io.Reader, out io.Writer) *Shell {
	return &Shell{ctrl: ctrl, in: in, out: out}
}

const shellHelp = `Commands:
  login <user> <password>                        start a session
  logout                                         end the session
  create <phn> <name>;<birth>;<phone>;<email>;<address>
  search <phn>                                   find a patient by PHN
  retrieve <name>                                find patients by name
  update <oldphn> <phn> <name>;<birth>;<phone>;<email>;<address>
  delete <phn>                                   remove a patient
  patients                                       list all patients
  select <phn>                                   set the current patient
  unselect                                       clear the current patient
  current                                        show the current patient
  note add <text>                                add a note
  note get <index>                               find a note by index
  note find <text>                               find notes by text
  note update <index> <text>                     revise a note
  note delete <index>                            remove a note
  notes                                          list notes, newest first
  quit`

// Run reads and executes commands until EOF or quit.
func (s *Shell) Run() error {
	scanner := bufio.NewScanner(s.in)
	for {
		fmt.Fprint(s.out, "clinic> ")
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return nil
		}
		s.execute(line)
	}
}

// execute runs one command line, printing its outcome.
func (s *Shell) execute(line string) {
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	var err error
	switch cmd {
	case "help":
		fmt.Fprintln(s.out, shellHelp)
	case "login":
		err = s.login(rest)
	case "logout":
		if err = s.ctrl.Logout(); err == nil {
			fmt.Fprintln(s.out, "logged out")
		}
	case "create":
		err = s.createPatient(rest)
	case "search":
		err = s.searchPatient(rest)
	case "retrieve":
		err = s.retrievePatients(rest)
	case "update":
		err = s.updatePatient(rest)
	case "delete":
		err = s.deletePatient(rest)
	case "patients":
		err = s.listPatients()
	case "select":
		err = s.selectPatient(rest)
	case "unselect":
		if err = s.ctrl.UnsetCurrentPatient(); err == nil {
			fmt.Fprintln(s.out, "current patient cleared")
		}
	case "current":
		err = s.showCurrent()
	case "note":
		err = s.noteCommand(rest)
	case "notes":
		err = s.listNotes()
	default:
		fmt.Fprintf(s.out, "unknown command %q, try help\n", cmd)
	}
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
	}
}

func (s *Shell) login(rest string) error {
	user, pass, ok := strings.Cut(rest, " ")
	if !ok {
		return fmt.Errorf("usage: login <user> <password>")
	}
	if err := s.ctrl.Login(user, strings.TrimSpace(pass)); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "logged in as %s\n", user)
	return nil
}

// splitDemographics parses "name;birth;phone;email;address".
func splitDemographics(rest string) (name, birth, phone, email, address string, err error) {
	parts := strings.SplitN(rest, ";", 5)
	if len(parts) != 5 {
		return "", "", "", "", "", fmt.Errorf("expected name;birth;phone;email;address")
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts[0], parts[1], parts[2], parts[3], parts[4], nil
}

func (s *Shell) createPatient(rest string) error {
	rawPHN, fields, ok := strings.Cut(rest, " ")
	if !ok {
		return fmt.Errorf("usage: create <phn> <name>;<birth>;<phone>;<email>;<address>")
	}
	phn, err := clinicerr.ParseID(rawPHN)
	if err != nil {
		return err
	}
	name, birth, phone, email, address, err := splitDemographics(fields)
	if err != nil {
		return err
	}
	p, err := s.ctrl.CreatePatient(phn, name, birth, phone, email, address)
	if err != nil {
		return err
	}
	s.printPatient(p)
	return nil
}

func (s *Shell) searchPatient(rest string) error {
	phn, err := clinicerr.ParseID(rest)
	if err != nil {
		return err
	}
	p, err := s.ctrl.SearchPatient(phn)
	if err != nil {
		return err
	}
	if p == nil {
		fmt.Fprintln(s.out, "no patient found")
		return nil
	}
	s.printPatient(p)
	return nil
}

func (s *Shell) retrievePatients(rest string) error {
	patients, err := s.ctrl.RetrievePatients(rest)
	if err != nil {
		return err
	}
	s.printPatients(patients)
	return nil
}

func (s *Shell) updatePatient(rest string) error {
	rawOld, rest, ok := strings.Cut(rest, " ")
	if !ok {
		return fmt.Errorf("usage: update <oldphn> <phn> <name>;<birth>;<phone>;<email>;<address>")
	}
	rawNew, fields, ok := strings.Cut(rest, " ")
	if !ok {
		return fmt.Errorf("usage: update <oldphn> <phn> <name>;<birth>;<phone>;<email>;<address>")
	}
	oldPHN, err := clinicerr.ParseID(rawOld)
	if err != nil {
		return err
	}
	newPHN, err := clinicerr.ParseID(rawNew)
	if err != nil {
		return err
	}
	name, birth, phone, email, address, err := splitDemographics(fields)
	if err != nil {
		return err
	}
	if err := s.ctrl.UpdatePatient(oldPHN, newPHN, name, birth, phone, email, address); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "patient updated")
	return nil
}

func (s *Shell) deletePatient(rest string) error {
	phn, err := clinicerr.ParseID(rest)
	if err != nil {
		return err
	}
	if err := s.ctrl.DeletePatient(phn); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "patient deleted")
	return nil
}

func (s *Shell) listPatients() error {
	patients, err := s.ctrl.ListPatients()
	if err != nil {
		return err
	}
	s.printPatients(patients)
	return nil
}

func (s *Shell) selectPatient(rest string) error {
	phn, err := clinicerr.ParseID(rest)
	if err != nil {
		return err
	}
	p, err := s.ctrl.SetCurrentPatient(phn)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "current patient: %d (%s)\n", p.PHN, p.Name)
	return nil
}

func (s *Shell) showCurrent() error {
	p, err := s.ctrl.GetCurrentPatient()
	if err != nil {
		return err
	}
	if p == nil {
		fmt.Fprintln(s.out, "no patient selected")
		return nil
	}
	s.printPatient(p)
	return nil
}

func (s *Shell) noteCommand(rest string) error {
	sub, args, _ := strings.Cut(rest, " ")
	args = strings.TrimSpace(args)

	switch sub {
	case "add":
		note, err := s.ctrl.CreateNote(args)
		if err != nil {
			return err
		}
		s.printNote(note)
		return nil
	case "get":
		index, err := clinicerr.ParseID(args)
		if err != nil {
			return err
		}
		note, err := s.ctrl.SearchNote(index)
		if err != nil {
			return err
		}
		if note == nil {
			fmt.Fprintln(s.out, "no note found")
			return nil
		}
		s.printNote(note)
		return nil
	case "find":
		notes, err := s.ctrl.RetrieveNotes(args)
		if err != nil {
			return err
		}
		s.printNotes(notes)
		return nil
	case "update":
		rawIndex, text, ok := strings.Cut(args, " ")
		if !ok {
			return fmt.Errorf("usage: note update <index> <text>")
		}
		index, err := clinicerr.ParseID(rawIndex)
		if err != nil {
			return err
		}
		ok, err = s.ctrl.UpdateNote(index, strings.TrimSpace(text))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(s.out, "no note found")
			return nil
		}
		fmt.Fprintln(s.out, "note updated")
		return nil
	case "delete":
		index, err := clinicerr.ParseID(args)
		if err != nil {
			return err
		}
		ok, err := s.ctrl.DeleteNote(index)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(s.out, "no note found")
			return nil
		}
		fmt.Fprintln(s.out, "note deleted")
		return nil
	default:
		return fmt.Errorf("unknown note command %q, try help", sub)
	}
}

func (s *Shell) listNotes() error {
	notes, err := s.ctrl.ListNotes()
	if err != nil {
		return err
	}
	s.printNotes(notes)
	return nil
}

func (s *Shell) printPatient(p *models.Patient) {
	fmt.Fprintf(s.out, "PHN: %d\nName: %s\nBirthdate: %s\nPhone: %s\nEmail: %s\nAddress: %s\n",
		p.PHN, p.Name, p.BirthDate, p.Phone, p.Email, p.Address)
}

func (s *Shell) printPatients(patients []*models.Patient) {
	if len(patients) == 0 {
		fmt.Fprintln(s.out, "no patients")
		return
	}
	for _, p := range patients {
		fmt.Fprintf(s.out, "%d\t%s\t%s\n", p.PHN, p.Name, p.BirthDate)
	}
}

func (s *Shell) printNote(n *models.Note) {
	fmt.Fprintf(s.out, "Note %d (%s): %s\n",
		n.Index, n.Timestamp.Format("2006-01-02 15:04"), n.Text)
}

func (s *Shell) printNotes(notes []*models.Note) {
	if len(notes) == 0 {
		fmt.Fprintln(s.out, "no notes")
		return
	}
	for _, n := range notes {
		s.printNote(n)
	}
}
