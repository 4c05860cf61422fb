package agents

import "fmt"

// NoContextSentinel flows into prompts when retrieval produced nothing.
const NoContextSentinel = "Δεν υπάρχει context."

// ToolNotRequiredSentinel tells the Executor no estimate was computed.
const ToolNotRequiredSentinel = "Δεν απαιτήθηκε εκτίμηση χρόνου."

func contextOrSentinel(contextBlock string) string {
	if contextBlock == "" {
		return NoContextSentinel
	}
	return contextBlock
}

func plannerPrompt(memoryBlock, utterance, contextBlock string) string {
	return fmt.Sprintf(`%s

Είσαι ο Planner Agent.
Στόχος: να φτιάξεις ΜΙΚΡΟ, ρεαλιστικό πλάνο σύμφωνα με το αίτημα του χρήστη.
Αν ο χρήστης ζητά ημέρες/εβδομάδες, χώρισε το πλάνο σε αντίστοιχες ενότητες.
Χρησιμοποίησε ΜΟΝΟ πληροφορίες από το CONTEXT. Αν κάτι δεν υπάρχει, γράψε "γενικό".

Αίτημα:
%s

CONTEXT:
%s

ΕΠΙΣΤΡΟΦΗ: ΜΟΝΟ JSON με πεδία:
goal: string
plan: array of strings (3-8 bullets)
questions: array (0-3 σύντομες)

ΔΙΑΘΕΣΙΜΟ TOOL:
estimate_study_time(days: int, topics: int)

Αν το αίτημα είναι "πλάνο μελέτης/ημέρες" και χρειάζεται χρόνος,
γράψε στο JSON:
use_tool: estimate_study_time
days: <αριθμός>
topics: <αριθμός>`, memoryBlock, utterance, contextOrSentinel(contextBlock))
}

func criticPrompt(memoryBlock, contextBlock, plan string) string {
	return fmt.Sprintf(`%s

Είσαι ο Critic Agent.
Έλεγξε το πλάνο:
- Είναι ρεαλιστικό;
- Πατάει πάνω στο CONTEXT;
- Έχει άσχετα/φανταστικά που πρέπει να κοπούν;

CONTEXT:
%s

PLAN (JSON):
%s

ΕΠΙΣΤΡΟΦΗ σε 3 bullets:
- Τι να κοπεί
- Τι να προστεθεί
- Τι να διορθωθεί`, memoryBlock, contextOrSentinel(contextBlock), plan)
}

func executorPrompt(memoryBlock, contextBlock, plan, critique, toolOutput string) string {
	return fmt.Sprintf(`%s

Είσαι ο Executor Agent.
Δώσε τελικό αποτέλεσμα σύντομο και πρακτικό, σύμφωνα με το αίτημα του χρήστη.
Αν ο χρήστης ζήτησε ημέρες/εβδομάδες, χώρισε το output αντίστοιχα.
Αλλιώς, δώσε bullet plan.

CONTEXT:
%s

PLAN:
%s

CRITIQUE:
%s

TOOL OUTPUT:
%s

Μορφή:
Στόχος: ...
Πλάνο:
- ...
- ...
(αν ζητήθηκαν ημέρες: Ημέρα 1/2/... ή Εβδομάδα 1/2/...)
Εκτίμηση Χρόνου: ...`, memoryBlock, contextOrSentinel(contextBlock), plan, critique, toolOutput)
}
