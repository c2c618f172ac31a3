package rules

import "fmt"

// Conversation texts shared by several states. These are the production
// French prompts; they are data, not code, and live in the rule file once a
// deployment customizes them.
const (
	msgGreeting     = "Bonjour et ravi de te voir ici ! Je suis CODEE, ton assistant intelligent prêt à t'aider. 🚀 Je suis là pour toi !"
	msgConsent      = "Avant de commencer, je dois recueillir quelques informations personnelles pour déterminer ton éligibilité. Acceptes-tu que tes données soient traitées dans le cadre de cette évaluation ?"
	msgConsentNo    = "Je comprends. Sans ces informations, je ne peux pas déterminer ton éligibilité. N'hésite pas à revenir si tu changes d'avis."
	msgAskAge       = "Pour mieux t'orienter, peux-tu me communiquer ton âge ? Cela m'aidera à te fournir des informations adaptées à ton profil. 😊"
	msgAskRSA       = "Es-tu bénéficiaire du RSA ?"
	msgAskSchooling = "D'accord, tu es scolarisé(e) ?"
	msgAskCity      = "Pour mieux t'aider, peux-tu me préciser ton code postal ou le nom de ta ville ?"

	msgEligibleALI  = "🎉 Bonne nouvelle ! 🎉 Tu es éligible à un accompagnement personnalisé par l'agence locale d'insertion de ta ville ! 🙌 Cela peut t'aider à trouver des opportunités professionnelles, recevoir des conseils et bien plus. Clique ici pour prendre un rendez-vous avec un conseiller."
	msgEligibleML   = "🎉 Bonne nouvelle ! 🎉 Tu es éligible à un accompagnement personnalisé par la mission locale de ta ville ! 🙌 Cela peut t'aider à trouver des opportunités professionnelles, recevoir des conseils et bien plus. Clique ici pour prendre un rendez-vous avec un conseiller."
	msgEligiblePLIE = "🎉 Bonne nouvelle ! 🎉 Tu es éligible à un accompagnement personnalisé par le PLIE de ta ville ! 🙌 Cela peut t'aider à trouver des opportunités professionnelles, recevoir des conseils et bien plus. Clique ici pour prendre un rendez-vous avec un conseiller."

	msgNotEligibleCity      = "Important : mon périmètre d'action est limité à la Plaine Commune et au département de la Seine-Saint-Denis (93). Pour ton cas, je te recommande de contacter les services de ta ville ou de ton département."
	msgNotEligibleSchooling = "Malheureusement, tu n'es pas éligible à un accompagnement pour le moment, tant que tu es encore scolarisé(e). 🎓 Dès que tu auras terminé tes études, tu pourras bénéficier de nos services d'accompagnement. En attendant, si tu as des questions, tu peux appeler CODEE au 01 48 13 13 20. À bientôt !"
	msgNotEligibleAgeMin    = "Je suis désolé, mais tu dois avoir au moins 16 ans pour être éligible aux programmes."
)

// City lists referenced by the default conditions. Entries are rule literals;
// the condition interpreter canonicalizes them through the city index, so the
// short form "epinay" is fine here.
const (
	aliCityList  = "['saint-denis', 'stains', 'pierrefitte']"
	mlCityList   = "['saint-denis', 'pierrefitte', 'saint-ouen', 'epinay', 'villetaneuse', 'ile-saint-denis']"
	plieCityList = "['aubervilliers', 'epinay', 'ile-saint-denis', 'la courneuve', 'pierrefitte', 'saint-denis', 'saint-ouen', 'stains', 'villetaneuse']"
)

// youngAgeLimit splits the young (mission locale) track from the adult one.
const youngAgeLimit = 25.5

// DefaultTree builds the built-in rule set, written to disk on first load.
// adultAgeLimit is the exclusive upper age bound; historical rule snapshots
// disagreed (62 vs 64), so it is a configuration decision, not a constant.
func DefaultTree(adultAgeLimit float64) *Tree {
	cityState := func(list, eligibleNext, eligibleMsg, tag string) *State {
		return &State{
			Prompt:  msgAskCity,
			Extract: FactCity,
			Transitions: []*Transition{
				{
					Condition:      fmt.Sprintf("city in %s", list),
					Next:           eligibleNext,
					Message:        eligibleMsg,
					IsFinal:        true,
					EligibilityTag: tag,
				},
				{
					Condition:      "True",
					Next:           "not_eligible_city",
					Message:        msgNotEligibleCity,
					IsFinal:        true,
					EligibilityTag: TagNotEligibleCity,
				},
			},
		}
	}

	rsaState := func(yesNext, noNext string) *State {
		return &State{
			Prompt:  msgAskRSA,
			Records: FactRSA,
			Responses: &Responses{
				Yes: &Branch{Next: yesNext, Message: msgAskSchooling},
				No:  &Branch{Next: noNext, Message: msgAskSchooling},
			},
		}
	}

	terminal := func(msg, tag string) *State {
		return &State{Prompt: msg, IsFinal: true, EligibilityTag: tag}
	}

	return &Tree{
		States: map[string]*State{
			StateInitial: {
				Prompt:      msgGreeting,
				DefaultNext: "consent",
			},
			"consent": {
				Prompt: msgConsent,
				Responses: &Responses{
					Yes: &Branch{Next: "age_verification", Message: msgAskAge},
					No:  &Branch{Next: "end", Message: msgConsentNo, IsFinal: true},
				},
			},
			"age_verification": {
				Prompt:  msgAskAge,
				Extract: FactAge,
				Transitions: []*Transition{
					{
						Condition:      "age < 16",
						Next:           "not_eligible_age",
						Message:        msgNotEligibleAgeMin,
						IsFinal:        true,
						EligibilityTag: TagNotEligibleAge,
					},
					{
						Condition: fmt.Sprintf("age >= 16 and age <= %v", youngAgeLimit),
						Next:      "rsa_verification_young",
						Message:   msgAskRSA,
					},
					{
						Condition: fmt.Sprintf("age > %v and age < %v", youngAgeLimit, adultAgeLimit),
						Next:      "rsa_verification_adult",
						Message:   msgAskRSA,
					},
					{
						Condition:      "True",
						Next:           "not_eligible_age",
						Message:        fmt.Sprintf("Je suis désolé, mais tu dois avoir moins de %v ans pour être éligible aux programmes.", adultAgeLimit),
						IsFinal:        true,
						EligibilityTag: TagNotEligibleAge,
					},
				},
			},
			"rsa_verification_young": rsaState(
				"schooling_verification_young_rsa", "schooling_verification_young_no_rsa"),
			"rsa_verification_adult": rsaState(
				"schooling_verification_adult_rsa", "schooling_verification_adult_no_rsa"),
			"schooling_verification_young_rsa": {
				Prompt:  msgAskSchooling,
				Records: FactSchooling,
				Responses: &Responses{
					Yes: &Branch{Next: "city_verification_young_rsa", Message: msgAskCity},
					No:  &Branch{Next: "city_verification_young_rsa", Message: msgAskCity},
				},
			},
			"schooling_verification_young_no_rsa": {
				Prompt:  msgAskSchooling,
				Records: FactSchooling,
				Responses: &Responses{
					Yes: &Branch{
						Next:           "not_eligible_schooling",
						Message:        msgNotEligibleSchooling,
						IsFinal:        true,
						EligibilityTag: TagNotEligibleSchooling,
					},
					No: &Branch{Next: "city_verification_young_no_rsa", Message: msgAskCity},
				},
			},
			"schooling_verification_adult_rsa": {
				Prompt:  msgAskSchooling,
				Records: FactSchooling,
				Responses: &Responses{
					Yes: &Branch{Next: "city_verification_adult_rsa", Message: msgAskCity},
					No:  &Branch{Next: "city_verification_adult_rsa", Message: msgAskCity},
				},
			},
			"schooling_verification_adult_no_rsa": {
				Prompt:  msgAskSchooling,
				Records: FactSchooling,
				Responses: &Responses{
					Yes: &Branch{Next: "city_verification_adult_no_rsa", Message: msgAskCity},
					No:  &Branch{Next: "city_verification_adult_no_rsa", Message: msgAskCity},
				},
			},
			"city_verification_young_rsa": cityState(
				aliCityList, "eligible_ali", msgEligibleALI, TagALI),
			"city_verification_young_no_rsa": cityState(
				mlCityList, "eligible_ml", msgEligibleML, TagML),
			"city_verification_adult_rsa": cityState(
				aliCityList, "eligible_ali", msgEligibleALI, TagALI),
			"city_verification_adult_no_rsa": cityState(
				plieCityList, "eligible_plie", msgEligiblePLIE, TagPLIE),

			"eligible_ali":  terminal(msgEligibleALI, TagALI),
			"eligible_ml":   terminal(msgEligibleML, TagML),
			"eligible_plie": terminal(msgEligiblePLIE, TagPLIE),
			"not_eligible_age": terminal(
				"Je suis désolé, mais tu ne remplis pas les critères d'âge pour être éligible aux programmes.", TagNotEligibleAge),
			"not_eligible_city":      terminal(msgNotEligibleCity, TagNotEligibleCity),
			"not_eligible_schooling": terminal(msgNotEligibleSchooling, TagNotEligibleSchooling),
			"end":                    {Prompt: msgConsentNo, IsFinal: true},
		},
		Overrides: []*Override{
			{
				Condition: fmt.Sprintf(
					"age >= 16 and age <= %v and rsa == false and schooling == false and city in %s",
					youngAgeLimit, mlCityList),
				Next:           "eligible_ml",
				Message:        msgEligibleML,
				EligibilityTag: TagML,
			},
		},
	}
}
