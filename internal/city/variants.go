package city

// variants lists the known spellings for each canonical city: standard forms,
// abbreviations, postal codes with the spacing and punctuation users actually
// type, spelled-out postal codes heard from the speech pipeline, and the
// misspellings collected from production transcripts (adjacent-key typos,
// doubled or dropped letters, missing diacritics).
//
// The table is the corpus for exact lookup; anything it misses falls through
// to the fuzzy resolver.
var variants = map[City][]string{
	SaintDenis: {
		"saint-denis", "saint denis", "st-denis", "st denis", "st.denis",
		"saint-denys", "saint dénis", "st dénis", "saintdenis", "saint_denis",
		"93200", "93 200", "93.200", "932 00", "93-200",
		"93200 saint denis", "saint denis 93200", "saint-denis 93",
		"quatre-vingt-treize deux cents", "quatre vingt treize deux cents",
		"sain denis", "sain deni", "sant denis", "sent denis", "sint deni",
		"san denis", "san-denis", "sen denis", "snt denis", "snt-denis",
		"saind denis", "saiint denis", "ssaint denis", "saint dennis",
		"saint-dennis", "saint-deni", "saint deni", "sainr-denis",
		"saintt denis", "saibt-denis", "szint-denis", "saint-denid",
		"saint-demis", "xaint-denis", "saint-deniss", "dsaint-denis",
		"aint-denis", "sdenis", "st-deni",
		"la plaine saint denis", "plaine saint denis", "la plaine st denis",
		"ville de saint denis", "commune de saint denis", "stade de france",
	},
	Stains: {
		"stains", "stain", "staims", "stainss", "staines", "stins", "stens",
		"staisn", "tains", "sstains", "staind", "stainz",
		"93240", "93 240", "93.240", "932 40", "93-240",
		"stains 93240", "93240 stains", "stains 93", "ville de stains",
		"commune de stains",
		"quatre-vingt-treize deux cent quarante",
		"quatre vingt treize deux cent quarante",
	},
	Pierrefitte: {
		"pierrefitte", "pierrefitte-sur-seine", "pierrefitte sur seine",
		"pierfitte", "pierrefite", "pierefitte", "pierrefit", "pierrefitt",
		"pierrefiite", "pierrefittte", "pierrfitte", "pirrefitte",
		"93380", "93 380", "93.380", "933 80", "93-380",
		"pierrefitte 93380", "93380 pierrefitte", "pierrefitte 93",
		"ville de pierrefitte", "commune de pierrefitte",
		"quatre-vingt-treize trois cent quatre-vingts",
		"quatre vingt treize trois cent quatre vingts",
	},
	SaintOuen: {
		"saint-ouen", "saint ouen", "st-ouen", "st ouen", "st.ouen",
		"saint-ouen-sur-seine", "saint ouen sur seine", "saintouen",
		"saint ouens", "sain ouen", "saint-oen", "saint-ouem", "saint-puen",
		"st-ouen-sur-seine",
		"93400", "93 400", "93.400", "934 00", "93-400",
		"saint ouen 93400", "93400 saint ouen", "saint-ouen 93",
		"ville de saint ouen", "commune de saint ouen",
		"quatre-vingt-treize quatre cents", "quatre vingt treize quatre cents",
	},
	Epinay: {
		"épinay-sur-seine", "epinay-sur-seine", "épinay sur seine",
		"epinay sur seine", "épinay", "epinay", "epinai", "épinai",
		"epynay", "épinnay", "epinnay", "epiney", "épiney", "epinay s/s",
		"93800", "93 800", "93.800", "938 00", "93-800",
		"epinay 93800", "93800 epinay", "épinay 93",
		"ville d'épinay", "commune d'épinay",
		"quatre-vingt-treize huit cents", "quatre vingt treize huit cents",
	},
	Villetaneuse: {
		"villetaneuse", "villetaneus", "villetaneuze", "villetanneuse",
		"viletaneuse", "villetanause", "villetaneause", "villtaneuse",
		"villetaneusse", "vlletaneuse",
		"93430", "93 430", "93.430", "934 30", "93-430",
		"villetaneuse 93430", "93430 villetaneuse", "villetaneuse 93",
		"ville de villetaneuse", "commune de villetaneuse",
		"quatre-vingt-treize quatre cent trente",
		"quatre vingt treize quatre cent trente",
	},
	IleSaintDenis: {
		"île-saint-denis", "ile-saint-denis", "île saint denis",
		"ile saint denis", "l'île-saint-denis", "l'ile-saint-denis",
		"l'île saint denis", "l'ile saint denis", "lile saint denis",
		"ile st denis", "île st denis", "ile-st-denis",
		"93450", "93 450", "93.450", "934 50", "93-450",
		"ile saint denis 93450", "93450 ile saint denis",
		"quatre-vingt-treize quatre cent cinquante",
		"quatre vingt treize quatre cent cinquante",
	},
	Aubervilliers: {
		"aubervilliers", "aubervillier", "auberviliers", "aubervillers",
		"auberviller", "obervilliers", "aubervillié", "auberviliiers",
		"aubervilliers 93", "auber",
		"93300", "93 300", "93.300", "933 00", "93-300",
		"aubervilliers 93300", "93300 aubervilliers",
		"ville d'aubervilliers", "commune d'aubervilliers",
		"quatre-vingt-treize trois cents", "quatre vingt treize trois cents",
	},
	LaCourneuve: {
		"la courneuve", "la-courneuve", "lacourneuve", "courneuve",
		"la courneuv", "la corneuve", "la courneve", "la kourneuve",
		"la kurneuve", "la courmeuve", "la courbeuve", "la ccourneuve",
		"la cournneuve", "la courneuvee",
		"93120", "93 120", "93.120", "931 20", "93-120",
		"la courneuve 93120", "93120 la courneuve", "la courneuve 93",
		"ville de la courneuve", "commune de la courneuve",
		"quatre-vingt-treize cent vingt", "quatre vingt treize cent vingt",
	},
	Montfermeil: {
		"montfermeil", "montfermeuil", "montfermail", "montfermei",
		"monfermeil", "montfermeille", "mont fermeil", "mont-fermeil",
		"montfermeil 93",
		"93370", "93 370", "93.370", "933 70", "93-370",
		"montfermeil 93370", "93370 montfermeil",
		"ville de montfermeil", "commune de montfermeil",
		"quatre-vingt-treize trois cent soixante-dix",
		"quatre vingt treize trois cent soixante dix",
	},
}

// postalCodes maps each covered 5-digit postal code to its municipality.
var postalCodes = map[string]City{
	"93200": SaintDenis,
	"93240": Stains,
	"93380": Pierrefitte,
	"93400": SaintOuen,
	"93800": Epinay,
	"93430": Villetaneuse,
	"93450": IleSaintDenis,
	"93300": Aubervilliers,
	"93120": LaCourneuve,
	"93370": Montfermeil,
}
