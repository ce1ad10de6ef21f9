package extract

import "context"

// SamplePageCount is the page count reported for the demo application form.
const SamplePageCount = 3

// SampleText is a bilingual (English/German) application form used for demos
// and when no real document is supplied.
const SampleText = `APPLICATION FORM / ANTRAGSFORMULAR

Personal Information / Persönliche Angaben
Name: _____________________________
First Name / Vorname: ______________
Last Name / Nachname: ______________
Email Address / E-Mail-Adresse: ____
Phone Number / Telefonnummer: ______
Date of Birth / Geburtsdatum: ______

Address Information / Adressangaben
Street / Straße: ___________________
House Number / Hausnummer: _________
Postal Code / Postleitzahl: ________
City / Stadt: _____________________
Country / Land: ___________________

Employment Information / Beschäftigungsangaben
Current Position / Aktuelle Position: __
Company / Unternehmen: ______________
Start Date / Startdatum: ____________
Salary / Gehalt: ___________________

Additional Information / Zusätzliche Angaben
Please describe your experience / Bitte beschreiben Sie Ihre Erfahrung:
_________________________________
_________________________________

Skills / Fähigkeiten
☐ Programming / Programmierung
☐ Design / Design
☐ Management / Management
☐ Languages / Sprachen

Language Proficiency / Sprachkenntnisse
Native / Muttersprache: _____________
Fluent / Fließend: _________________
Intermediate / Mittel: ______________
Beginner / Anfänger: _______________

References / Referenzen
Reference 1 / Referenz 1: ___________
Contact / Kontakt: __________________
Reference 2 / Referenz 2: ___________
Contact / Kontakt: __________________

Terms and Conditions / Allgemeine Geschäftsbedingungen
☐ I agree to the terms and conditions / Ich stimme den AGB zu
☐ I consent to data processing / Ich stimme der Datenverarbeitung zu

Signature / Unterschrift: ________________
Date / Datum: ________________________

Please submit this form by / Bitte senden Sie dieses Formular bis:
Deadline / Frist: ____________________`

// Sample returns SampleText for every input.
type Sample struct{}

// Extract implements Extractor.
func (Sample) Extract(ctx context.Context, _ Input) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	return Result{Text: SampleText, PageCount: SamplePageCount}, nil
}
