package knowledge

import "github.com/giygas/medibot-api/entities"

type dosage = map[entities.AgeBand]string

func adult(s string) dosage { return dosage{entities.BandAdult: s} }

func bands(adultDose, childDose string) dosage {
	return dosage{entities.BandAdult: adultDose, entities.BandChild: childDose}
}

// curatedEntries is the version-controlled drug table. Keys of the built
// index are derived with Normalize, so names here are display spellings.
var curatedEntries = []entities.KnowledgeEntry{
	{
		CanonicalName: "paracetamol",
		DosageByBand:  bands("500-1000 mg q6-8h (max 4 g/day)", "10-15 mg/kg q6-8h"),
		Alternatives:  []string{"ibuprofen", "aspirin"},
		Interactions:  []string{"alcohol", "warfarin"},
		Uses:          []string{"fever", "mild-moderate pain", "headache"},
	},
	{
		CanonicalName: "ibuprofen",
		DosageByBand:  bands("200-400 mg q6-8h (max 3.2 g/day)", "5-10 mg/kg q6-8h"),
		Alternatives:  []string{"naproxen", "diclofenac", "aspirin"},
		Interactions:  []string{"warfarin", "aspirin", "corticosteroids"},
		Uses:          []string{"pain", "inflammation", "arthritis", "fever"},
	},
	{
		CanonicalName: "aspirin",
		DosageByBand:  adult("75-325 mg/day (cardiac), up to 4 g/day (pain)"),
		Alternatives:  []string{"clopidogrel", "ibuprofen", "naproxen"},
		Interactions:  []string{"warfarin", "ssris"},
		Uses:          []string{"pain", "fever", "heart attack prevention", "stroke prevention"},
	},
	{
		CanonicalName: "amoxicillin",
		DosageByBand:  bands("500 mg q8h or 875 mg q12h", "25-50 mg/kg/day"),
		Alternatives:  []string{"ampicillin", "cephalexin", "azithromycin"},
		Interactions:  []string{"methotrexate", "warfarin"},
		Uses:          []string{"bacterial infections", "respiratory infections", "urinary infections", "skin infections"},
	},
	{
		CanonicalName: "azithromycin",
		DosageByBand:  adult("500 mg day 1, then 250 mg x4 days"),
		Alternatives:  []string{"clarithromycin", "doxycycline"},
		Interactions:  []string{"statins", "qt-prolonging drugs"},
		Uses:          []string{"respiratory infections", "skin infections", "sexually transmitted infections"},
	},
	{
		CanonicalName: "ciprofloxacin",
		DosageByBand:  adult("250-750 mg q12h"),
		Alternatives:  []string{"levofloxacin", "ofloxacin"},
		Interactions:  []string{"antacids", "warfarin"},
		Uses:          []string{"urinary tract infections", "respiratory infections", "gastrointestinal infections"},
	},
	{
		CanonicalName: "metformin",
		DosageByBand:  adult("500-1000 mg BID (max 2.5 g/day)"),
		Alternatives:  []string{"sitagliptin", "pioglitazone"},
		Interactions:  []string{"alcohol", "iodinated contrast agents"},
		Uses:          []string{"type 2 diabetes", "insulin resistance"},
	},
	{
		CanonicalName: "insulin",
		DosageByBand:  adult("0.2-1.0 units/kg/day"),
		Alternatives:  []string{"insulin lispro", "insulin glargine"},
		Interactions:  []string{"beta-blockers", "alcohol"},
		Uses:          []string{"type 1 diabetes", "type 2 diabetes"},
	},
	{
		CanonicalName: "glibenclamide",
		DosageByBand:  adult("2.5-5 mg OD (max 20 mg/day)"),
		Alternatives:  []string{"glimepiride", "gliclazide"},
		Interactions:  []string{"alcohol", "beta-blockers"},
		Uses:          []string{"type 2 diabetes", "blood sugar control"},
	},
	{
		CanonicalName: "losartan",
		DosageByBand:  adult("50 mg OD (25-100 mg/day)"),
		Alternatives:  []string{"valsartan", "telmisartan"},
		Interactions:  []string{"potassium supplements", "nsaids"},
		Uses:          []string{"hypertension", "heart failure", "kidney protection"},
	},
	{
		CanonicalName: "amlodipine",
		DosageByBand:  adult("5-10 mg OD"),
		Alternatives:  []string{"nifedipine", "diltiazem"},
		Interactions:  []string{"grapefruit juice", "simvastatin"},
		Uses:          []string{"hypertension", "angina"},
	},
	{
		CanonicalName: "lisinopril",
		DosageByBand:  adult("10-40 mg OD"),
		Alternatives:  []string{"enalapril", "ramipril"},
		Interactions:  []string{"potassium supplements", "nsaids", "lithium"},
		Uses:          []string{"hypertension", "heart failure", "kidney disease"},
	},
	{
		CanonicalName: "atorvastatin",
		DosageByBand:  adult("10-80 mg OD"),
		Alternatives:  []string{"rosuvastatin", "simvastatin"},
		Interactions:  []string{"grapefruit juice", "macrolides"},
		Uses:          []string{"high cholesterol", "heart disease prevention"},
	},
	{
		CanonicalName: "simvastatin",
		DosageByBand:  adult("10-40 mg OD (evening)"),
		Alternatives:  []string{"pravastatin", "rosuvastatin"},
		Interactions:  []string{"grapefruit juice", "clarithromycin"},
		Uses:          []string{"high cholesterol"},
	},
	{
		CanonicalName: "omeprazole",
		DosageByBand:  adult("20-40 mg OD"),
		Alternatives:  []string{"pantoprazole", "esomeprazole"},
		Interactions:  []string{"clopidogrel", "warfarin"},
		Uses:          []string{"gerd", "stomach ulcers", "acidity"},
	},
	{
		CanonicalName: "pantoprazole",
		DosageByBand:  adult("40 mg OD"),
		Alternatives:  []string{"omeprazole", "rabeprazole"},
		Interactions:  []string{"methotrexate", "warfarin"},
		Uses:          []string{"gerd", "acidity", "ulcers"},
	},
	{
		CanonicalName: "ranitidine",
		DosageByBand:  adult("150 mg BID"),
		Alternatives:  []string{"famotidine", "nizatidine"},
		Interactions:  []string{"warfarin", "alcohol"},
		Uses:          []string{"acidity", "heartburn"},
	},
	{
		CanonicalName: "furosemide",
		DosageByBand:  adult("20-80 mg/day"),
		Alternatives:  []string{"bumetanide", "torsemide"},
		Interactions:  []string{"digoxin", "aminoglycosides"},
		Uses:          []string{"edema", "hypertension", "heart failure"},
	},
	{
		CanonicalName: "spironolactone",
		DosageByBand:  adult("25-100 mg/day"),
		Alternatives:  []string{"eplerenone", "amiloride"},
		Interactions:  []string{"ace inhibitors", "arbs"},
		Uses:          []string{"heart failure", "hypertension", "pcos", "acne"},
	},
	{
		CanonicalName: "hydrochlorothiazide",
		DosageByBand:  adult("12.5-50 mg OD"),
		Alternatives:  []string{"chlorthalidone", "indapamide"},
		Interactions:  []string{"lithium", "nsaids"},
		Uses:          []string{"hypertension", "edema"},
	},
	{
		CanonicalName: "salbutamol",
		DosageByBand:  adult("inhaler: 100-200 mcg q4-6h PRN"),
		Alternatives:  []string{"terbutaline", "formoterol"},
		Interactions:  []string{"beta-blockers", "maois"},
		Uses:          []string{"asthma", "copd", "shortness of breath"},
	},
	{
		CanonicalName: "prednisone",
		DosageByBand:  adult("5-60 mg/day (variable)"),
		Alternatives:  []string{"dexamethasone", "methylprednisolone"},
		Interactions:  []string{"nsaids", "vaccines"},
		Uses:          []string{"inflammation", "asthma", "autoimmune diseases"},
	},
	{
		CanonicalName: "levothyroxine",
		DosageByBand:  adult("25-200 mcg OD"),
		Alternatives:  []string{"liothyronine"},
		Interactions:  []string{"iron supplements", "calcium supplements", "warfarin"},
		Uses:          []string{"hypothyroidism"},
	},
	{
		CanonicalName: "warfarin",
		DosageByBand:  adult("2-10 mg OD (INR-guided)"),
		Alternatives:  []string{"apixaban", "rivaroxaban"},
		Interactions:  []string{"antibiotics", "nsaids", "vitamin k foods"},
		Uses:          []string{"prevents blood clots", "dvt prevention", "stroke prevention", "atrial fibrillation"},
	},
	{
		CanonicalName: "heparin",
		DosageByBand:  adult("5000 units SC q8-12h"),
		Alternatives:  []string{"enoxaparin", "fondaparinux"},
		Interactions:  []string{"nsaids", "antiplatelets"},
		Uses:          []string{"prevents blood clots", "treats blood clots"},
	},
	{
		CanonicalName: "apixaban",
		DosageByBand:  adult("5 mg BID"),
		Alternatives:  []string{"rivaroxaban", "dabigatran"},
		Interactions:  []string{"rifampicin", "nsaids"},
		Uses:          []string{"stroke prevention", "dvt prevention", "pulmonary embolism prevention"},
	},
	{
		CanonicalName: "clopidogrel",
		DosageByBand:  adult("75 mg OD"),
		Alternatives:  []string{"prasugrel", "ticagrelor"},
		Interactions:  []string{"omeprazole", "nsaids"},
		Uses:          []string{"prevents stroke", "prevents heart attack", "blood thinner"},
	},
	{
		CanonicalName: "metoprolol",
		DosageByBand:  adult("25-100 mg BID"),
		Alternatives:  []string{"atenolol", "bisoprolol"},
		Interactions:  []string{"verapamil", "insulin"},
		Uses:          []string{"hypertension", "angina", "arrhythmia"},
	},
	{
		CanonicalName: "sertraline",
		DosageByBand:  adult("50-200 mg OD"),
		Alternatives:  []string{"fluoxetine", "escitalopram"},
		Interactions:  []string{"maois", "nsaids"},
		Uses:          []string{"depression", "anxiety", "ocd"},
	},
	{
		CanonicalName: "fluoxetine",
		DosageByBand:  adult("20-60 mg OD"),
		Alternatives:  []string{"sertraline", "paroxetine"},
		Interactions:  []string{"triptans", "warfarin", "maois"},
		Uses:          []string{"depression", "panic disorder"},
	},
	{
		CanonicalName: "diazepam",
		DosageByBand:  adult("2-10 mg 2-4x daily"),
		Alternatives:  []string{"lorazepam", "alprazolam"},
		Interactions:  []string{"alcohol", "opioids"},
		Uses:          []string{"anxiety", "muscle spasms", "seizures"},
	},
	{
		CanonicalName: "morphine",
		DosageByBand:  adult("10-30 mg q4h (oral)"),
		Alternatives:  []string{"oxycodone", "fentanyl"},
		Interactions:  []string{"alcohol", "benzodiazepines", "maois"},
		Uses:          []string{"severe pain", "post-surgery pain"},
	},
	{
		CanonicalName: "codeine",
		DosageByBand:  adult("15-60 mg q4-6h (max 360 mg/day)"),
		Alternatives:  []string{"tramadol", "morphine"},
		Interactions:  []string{"alcohol", "antihistamines"},
		Uses:          []string{"mild-moderate pain", "cough"},
	},
	{
		CanonicalName: "tramadol",
		DosageByBand:  adult("50-100 mg q4-6h (max 400 mg/day)"),
		Alternatives:  []string{"codeine", "tapentadol"},
		Interactions:  []string{"ssris", "alcohol"},
		Uses:          []string{"moderate-severe pain"},
	},
	{
		CanonicalName: "cetirizine",
		DosageByBand:  adult("10 mg OD"),
		Alternatives:  []string{"loratadine", "fexofenadine"},
		Interactions:  []string{"alcohol", "cns depressants"},
		Uses:          []string{"allergies", "hay fever", "runny nose"},
	},
}
